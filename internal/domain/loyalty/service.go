package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dinehub/dinehub-api/internal/pkg/email"
)

// Store is the persistence surface the service needs (interface for testability)
type Store interface {
	GetConfig(ctx context.Context) (*Config, error)
	SaveConfig(ctx context.Context, cfg *Config) error
	CreateReward(ctx context.Context, reward *Reward) error
	UpdateReward(ctx context.Context, reward *Reward) error
	GetReward(ctx context.Context, id uuid.UUID) (*RewardWithUsage, error)
	ListRewards(ctx context.Context, includeInactive bool) ([]RewardWithUsage, error)
	DeactivateReward(ctx context.Context, id uuid.UUID) error
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerLoyalty, error)
	ListTransactions(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Transaction, int, error)
	Earn(ctx context.Context, customerID uuid.UUID, email string, orderID uuid.UUID, points int) (*CustomerLoyalty, error)
	Redeem(ctx context.Context, customerID, rewardID uuid.UUID, now time.Time) (*Reward, *CustomerLoyalty, error)
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Notifier queues receipt emails (satisfied by *email.Service)
type Notifier interface {
	Enqueue(e *email.QueuedEmail)
}

type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// ---------- Config ----------

func (s *Service) GetConfig(ctx context.Context) (*Config, error) {
	return s.store.GetConfig(ctx)
}

func (s *Service) UpdateConfig(ctx context.Context, req *ConfigRequest) (*Config, error) {
	cfg := &Config{
		PointsPerAmount: req.PointsPerAmount,
		PointValue:      req.PointValue,
		IsActive:        req.IsActive,
		UpdatedAt:       time.Now(),
	}
	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	log.Info().
		Float64("points_per_amount", cfg.PointsPerAmount).
		Float64("point_value", cfg.PointValue).
		Bool("is_active", cfg.IsActive).
		Msg("loyalty config updated")
	return cfg, nil
}

// ---------- Rewards ----------

func (s *Service) CreateReward(ctx context.Context, req *RewardCreateRequest) (*Reward, error) {
	now := time.Now()
	reward := &Reward{
		ID:                uuid.New(),
		Name:              req.Name,
		Description:       req.Description,
		Type:              RewardType(req.Type),
		PointsRequired:    req.PointsRequired,
		RewardValue:       req.RewardValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ApplicableItems:   req.ApplicableItems,
		IsActive:          true,
		UsageLimit:        req.UsageLimit,
		ValidUntil:        req.ValidUntil,
		ExpirationDays:    req.ExpirationDays,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if errs := ValidateReward(reward, now); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.store.CreateReward(ctx, reward); err != nil {
		return nil, err
	}
	log.Info().Str("reward_id", reward.ID.String()).Str("name", reward.Name).Msg("loyalty reward created")
	return reward, nil
}

func (s *Service) UpdateReward(ctx context.Context, id uuid.UUID, req *RewardUpdateRequest) (*Reward, error) {
	existing, err := s.store.GetReward(ctx, id)
	if err != nil {
		return nil, err
	}
	reward := existing.Reward

	if req.Name != nil {
		reward.Name = *req.Name
	}
	if req.Description != nil {
		reward.Description = *req.Description
	}
	if req.Type != nil {
		reward.Type = RewardType(*req.Type)
	}
	if req.PointsRequired != nil {
		reward.PointsRequired = *req.PointsRequired
	}
	if req.RewardValue != nil {
		reward.RewardValue = *req.RewardValue
	}
	if req.MaxDiscountAmount != nil {
		reward.MaxDiscountAmount = req.MaxDiscountAmount
	}
	if req.ApplicableItems != nil {
		reward.ApplicableItems = req.ApplicableItems
	}
	if req.IsActive != nil {
		reward.IsActive = *req.IsActive
	}
	if req.UsageLimit != nil {
		reward.UsageLimit = req.UsageLimit
	}
	if req.ValidUntil != nil {
		reward.ValidUntil = req.ValidUntil
	}
	if req.ExpirationDays != nil {
		reward.ExpirationDays = req.ExpirationDays
	}

	if errs := ValidateReward(&reward, time.Now()); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.store.UpdateReward(ctx, &reward); err != nil {
		return nil, err
	}
	log.Info().Str("reward_id", reward.ID.String()).Msg("loyalty reward updated")
	return &reward, nil
}

func (s *Service) GetReward(ctx context.Context, id uuid.UUID) (*RewardWithUsage, error) {
	return s.store.GetReward(ctx, id)
}

func (s *Service) ListRewards(ctx context.Context, includeInactive bool) ([]RewardWithUsage, error) {
	return s.store.ListRewards(ctx, includeInactive)
}

func (s *Service) DeactivateReward(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeactivateReward(ctx, id); err != nil {
		return err
	}
	log.Info().Str("reward_id", id.String()).Msg("loyalty reward deactivated")
	return nil
}

// AvailableRewardsFor filters the active catalog to what the customer can
// redeem right now. A customer with no loyalty record has a zero balance.
func (s *Service) AvailableRewardsFor(ctx context.Context, customerID uuid.UUID) ([]Reward, error) {
	points := 0
	c, err := s.store.GetCustomer(ctx, customerID)
	if err == nil {
		points = c.TotalPoints
	} else if err != ErrCustomerNotFound {
		return nil, err
	}

	rewards, err := s.store.ListRewards(ctx, false)
	if err != nil {
		return nil, err
	}
	return AvailableRewards(points, rewards, time.Now()), nil
}

// ---------- Earn / redeem flows ----------

// EarnPoints credits points for a paid order amount. Returns the points
// awarded; zero when the program is inactive or the amount is below one
// point, in which case nothing is written.
func (s *Service) EarnPoints(ctx context.Context, customerID uuid.UUID, customerEmail string, orderID uuid.UUID, amount float64) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return 0, err
	}

	points := PointsEarned(amount, cfg)
	if points == 0 {
		return 0, nil
	}

	c, err := s.store.Earn(ctx, customerID, customerEmail, orderID, points)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("order_id", orderID.String()).
		Int("points", points).
		Int("balance", c.TotalPoints).
		Msg("loyalty points earned")
	return points, nil
}

// RedeemReward debits the points price of a reward from the customer's
// balance. Eligibility is re-checked inside the transaction, so callers that
// skipped AvailableRewardsFor still cannot drive a balance negative.
func (s *Service) RedeemReward(ctx context.Context, customerID, rewardID uuid.UUID) (*Reward, *CustomerLoyalty, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.IsActive {
		return nil, nil, ErrProgramInactive
	}

	reward, c, err := s.store.Redeem(ctx, customerID, rewardID, time.Now())
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("reward_id", rewardID.String()).
		Int("points", reward.PointsRequired).
		Int("balance", c.TotalPoints).
		Msg("loyalty reward redeemed")

	if s.notifier != nil && c.CustomerEmail != "" {
		s.notifier.Enqueue(&email.QueuedEmail{
			To:           c.CustomerEmail,
			Subject:      fmt.Sprintf("You redeemed %s", reward.Name),
			TemplateName: "reward_redeemed",
			Data: map[string]interface{}{
				"CustomerName":    c.CustomerEmail,
				"RewardName":      reward.Name,
				"PointsUsed":      reward.PointsRequired,
				"RemainingPoints": c.TotalPoints,
			},
		})
	}
	return reward, c, nil
}

// ---------- Reads ----------

// CustomerSummary is a customer's balance with its tier and monetary value
type CustomerSummary struct {
	Customer    *CustomerLoyalty `json:"customer"`
	Tier        Tier             `json:"tier"`
	PointsValue float64          `json:"points_value"`
}

func (s *Service) GetCustomerSummary(ctx context.Context, customerID uuid.UUID) (*CustomerSummary, error) {
	c, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	value := 0.0
	if cfg, err := s.store.GetConfig(ctx); err == nil {
		value = PointsValue(c.TotalPoints, cfg)
	}

	return &CustomerSummary{
		Customer:    c,
		Tier:        TierFor(c.TotalPoints),
		PointsValue: value,
	}, nil
}

func (s *Service) ListTransactions(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Transaction, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListTransactions(ctx, customerID, limit, offset)
}

// Analytics reduces a fresh snapshot of the whole program
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return BuildAnalytics(snap), nil
}
