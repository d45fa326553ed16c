package coupon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dinehub/dinehub-api/internal/pkg/email"
)

// Store is the persistence surface the service needs (interface for testability)
type Store interface {
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	GetByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	GetActiveByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]Coupon, int, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// Notifier queues announcement emails (satisfied by *email.Service)
type Notifier interface {
	Enqueue(e *email.QueuedEmail)
}

// Recipient is a customer reachable by email
type Recipient struct {
	Email string
	Name  string
}

// RecipientSource resolves coupon eligibility lists to email recipients.
// An empty customerIDs slice means every known customer.
type RecipientSource interface {
	Recipients(ctx context.Context, customerIDs []string) ([]Recipient, error)
}

type Service struct {
	store      Store
	cache      *Cache
	notifier   Notifier
	recipients RecipientSource
}

func NewService(store Store, cache *Cache, notifier Notifier, recipients RecipientSource) *Service {
	return &Service{store: store, cache: cache, notifier: notifier, recipients: recipients}
}

// ValidateCode looks up an active coupon and runs the eligibility engine
// against the order context. Infrastructure failures are returned as errors;
// rule rejections come back as a structured negative Result.
func (s *Service) ValidateCode(ctx context.Context, code string, orderAmount float64, customerID uuid.UUID) (Result, *Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var c *Coupon
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, code); ok {
			c = cached
		}
	}
	if c == nil {
		found, err := s.store.GetActiveByCode(ctx, code)
		if err == ErrNotFound {
			return Result{Message: "Invalid coupon code"}, nil, nil
		}
		if err != nil {
			return Result{}, nil, err
		}
		c = found
		if s.cache != nil {
			s.cache.Set(ctx, c)
		}
	}

	res := Validate(c, orderAmount, customerID, time.Now())
	if !res.Valid {
		return res, nil, nil
	}
	return res, c, nil
}

// RecordUsage registers a completed redemption. Kept separate from
// validation so repeated POS re-checks never consume usage.
func (s *Service) RecordUsage(ctx context.Context, id uuid.UUID) error {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.IncrementUsage(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, c.Code)
	}
	log.Info().Str("coupon_id", id.String()).Str("code", c.Code).Msg("coupon usage recorded")
	return nil
}

func (s *Service) Create(ctx context.Context, req *CreateRequest, createdBy uuid.UUID) (*Coupon, error) {
	now := time.Now()

	availableFor := Availability(req.AvailableFor)
	if availableFor == "" {
		availableFor = AvailableForAll
	}

	c := &Coupon{
		ID:                 uuid.New(),
		Code:               strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:       DiscountType(req.DiscountType),
		DiscountValue:      req.DiscountValue,
		MaxDiscountAmount:  req.MaxDiscountAmount,
		MinimumOrderAmount: req.MinimumOrderAmount,
		UsageLimit:         req.UsageLimit,
		AvailableFor:       availableFor,
		CustomerIDs:        req.CustomerIDs,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		IsActive:           true,
		NotifyByEmail:      req.NotifyByEmail,
		CreatedBy:          createdBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := checkRule(c); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().Str("coupon_id", c.ID.String()).Str("code", c.Code).Msg("coupon created")

	if c.NotifyByEmail {
		s.announce(ctx, c)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Coupon, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DiscountType != "" {
		c.DiscountType = DiscountType(req.DiscountType)
	}
	if req.DiscountValue != nil {
		c.DiscountValue = *req.DiscountValue
	}
	if req.MaxDiscountAmount != nil {
		c.MaxDiscountAmount = req.MaxDiscountAmount
	}
	if req.MinimumOrderAmount != nil {
		c.MinimumOrderAmount = req.MinimumOrderAmount
	}
	if req.UsageLimit != nil {
		c.UsageLimit = req.UsageLimit
	}
	if req.AvailableFor != "" {
		c.AvailableFor = Availability(req.AvailableFor)
	}
	if req.CustomerIDs != nil {
		c.CustomerIDs = req.CustomerIDs
	}
	if req.StartDate != nil {
		c.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.NotifyByEmail != nil {
		c.NotifyByEmail = *req.NotifyByEmail
	}

	if err := checkRule(c); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, c.Code)
	}

	log.Info().Str("coupon_id", c.ID.String()).Str("code", c.Code).Msg("coupon updated")
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Coupon, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, includeInactive bool, limit, offset int) ([]Coupon, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.List(ctx, includeInactive, limit, offset)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Deactivate(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, c.Code)
	}
	log.Info().Str("coupon_id", id.String()).Str("code", c.Code).Msg("coupon deactivated")
	return nil
}

// checkRule enforces the discount-rule invariants that structural DTO
// validation cannot express.
func checkRule(c *Coupon) error {
	if !c.EndDate.After(c.StartDate) {
		return ErrInvalidSchedule
	}
	switch c.DiscountType {
	case DiscountPercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return ErrInvalidDiscountValue
		}
	case DiscountFixed:
		if c.DiscountValue <= 0 || c.DiscountValue > 1000 {
			return ErrInvalidDiscountValue
		}
	}
	if c.AvailableFor == AvailableForSpecific && len(c.CustomerIDs) == 0 {
		return ErrNoCustomersSelected
	}
	return nil
}

// announce queues one announcement email per eligible customer. The engine
// itself never sends anything; delivery is the email collaborator's job.
func (s *Service) announce(ctx context.Context, c *Coupon) {
	if s.notifier == nil || s.recipients == nil {
		return
	}

	var ids []string
	if c.AvailableFor == AvailableForSpecific {
		ids = c.CustomerIDs
	}

	recipients, err := s.recipients.Recipients(ctx, ids)
	if err != nil {
		log.Error().Err(err).Str("code", c.Code).Msg("failed to resolve coupon recipients")
		return
	}

	discountText := fmt.Sprintf("%.2f off", c.DiscountValue)
	if c.DiscountType == DiscountPercentage {
		discountText = fmt.Sprintf("%.0f%% off", c.DiscountValue)
		if c.MaxDiscountAmount != nil {
			discountText = fmt.Sprintf("%s (up to %.2f)", discountText, *c.MaxDiscountAmount)
		}
	}

	for _, rcpt := range recipients {
		data := map[string]interface{}{
			"CustomerName": rcpt.Name,
			"Code":         c.Code,
			"DiscountText": discountText,
			"EndDate":      c.EndDate.Format("January 2, 2006"),
		}
		if c.MinimumOrderAmount != nil {
			data["MinimumOrderAmount"] = fmt.Sprintf("%.2f", *c.MinimumOrderAmount)
		}
		s.notifier.Enqueue(&email.QueuedEmail{
			To:           rcpt.Email,
			ToName:       rcpt.Name,
			Subject:      fmt.Sprintf("New offer: %s", c.Code),
			TemplateName: "coupon_announcement",
			Data:         data,
		})
	}

	log.Info().Str("code", c.Code).Int("recipients", len(recipients)).Msg("coupon announcement queued")
}
