package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dinehub/dinehub-api/internal/domain/coupon"
)

// Store is the persistence surface the service needs (interface for testability)
type Store interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) (*Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, int, error)
}

// CouponRedeemer is the slice of the coupon service orders depend on
type CouponRedeemer interface {
	ValidateCode(ctx context.Context, code string, orderAmount float64, customerID uuid.UUID) (coupon.Result, *coupon.Coupon, error)
	RecordUsage(ctx context.Context, id uuid.UUID) error
}

// PointsAwarder is the slice of the loyalty service orders depend on
type PointsAwarder interface {
	EarnPoints(ctx context.Context, customerID uuid.UUID, customerEmail string, orderID uuid.UUID, amount float64) (int, error)
}

type Service struct {
	store   Store
	coupons CouponRedeemer
	loyalty PointsAwarder
}

func NewService(store Store, coupons CouponRedeemer, loyalty PointsAwarder) *Service {
	return &Service{store: store, coupons: coupons, loyalty: loyalty}
}

// Create opens a pending order. A coupon code, when present, is validated
// against the subtotal and its discount locked into the order; usage is not
// consumed until the order completes.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Order, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		CustomerEmail: req.CustomerEmail,
		Subtotal:      req.Subtotal,
		TotalAmount:   req.Subtotal,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}

	if req.CouponCode != "" {
		result, c, err := s.coupons.ValidateCode(ctx, req.CouponCode, req.Subtotal, customerID)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, ErrCouponRejected
		}
		o.DiscountAmount = result.DiscountAmount
		o.TotalAmount = req.Subtotal - result.DiscountAmount
		if o.TotalAmount < 0 {
			o.TotalAmount = 0
		}
		o.CouponID = &c.ID
		o.CouponCode = &c.Code
	}

	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", o.ID.String()).
		Str("customer_id", o.CustomerID.String()).
		Float64("total", o.TotalAmount).
		Msg("order created")
	return o, nil
}

// Complete transitions a pending order and fires both engines: the applied
// coupon's usage is consumed, then loyalty points accrue on the amount the
// customer actually paid. The status transition happens first so a retried
// completion cannot double-charge either engine.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Order, int, error) {
	o, err := s.store.MarkCompleted(ctx, id, time.Now())
	if err != nil {
		return nil, 0, err
	}

	if o.CouponID != nil {
		if err := s.coupons.RecordUsage(ctx, *o.CouponID); err != nil {
			// The order stays completed; the discount was already honored.
			log.Error().Err(err).
				Str("order_id", o.ID.String()).
				Str("coupon_id", o.CouponID.String()).
				Msg("failed to record coupon usage")
		}
	}

	points, err := s.loyalty.EarnPoints(ctx, o.CustomerID, o.CustomerEmail, o.ID, o.TotalAmount)
	if err != nil {
		log.Error().Err(err).
			Str("order_id", o.ID.String()).
			Msg("failed to award loyalty points")
		points = 0
	}

	log.Info().
		Str("order_id", o.ID.String()).
		Int("points", points).
		Msg("order completed")
	return o, points, nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.store.Cancel(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Order, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.List(ctx, limit, offset)
}
