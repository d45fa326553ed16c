package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dinehub/dinehub-api/internal/domain/coupon"
	"github.com/dinehub/dinehub-api/internal/domain/order"
)

type storeStub struct {
	orders map[uuid.UUID]*order.Order
}

func newStoreStub() *storeStub {
	return &storeStub{orders: make(map[uuid.UUID]*order.Order)}
}

func (s *storeStub) Create(ctx context.Context, o *order.Order) error {
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *storeStub) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (s *storeStub) MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	switch o.Status {
	case order.StatusCompleted:
		return nil, order.ErrAlreadyCompleted
	case order.StatusCancelled:
		return nil, order.ErrCancelled
	}
	o.Status = order.StatusCompleted
	o.CompletedAt = &now
	return o, nil
}

func (s *storeStub) Cancel(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	if o.Status == order.StatusCompleted {
		return nil, order.ErrAlreadyCompleted
	}
	o.Status = order.StatusCancelled
	return o, nil
}

func (s *storeStub) List(ctx context.Context, limit, offset int) ([]order.Order, int, error) {
	return nil, 0, nil
}

type couponStub struct {
	result     coupon.Result
	coupon     *coupon.Coupon
	usageCalls int
}

func (c *couponStub) ValidateCode(ctx context.Context, code string, orderAmount float64, customerID uuid.UUID) (coupon.Result, *coupon.Coupon, error) {
	return c.result, c.coupon, nil
}

func (c *couponStub) RecordUsage(ctx context.Context, id uuid.UUID) error {
	c.usageCalls++
	return nil
}

type loyaltyStub struct {
	points    int
	err       error
	earnCalls int
	amount    float64
}

func (l *loyaltyStub) EarnPoints(ctx context.Context, customerID uuid.UUID, customerEmail string, orderID uuid.UUID, amount float64) (int, error) {
	l.earnCalls++
	l.amount = amount
	if l.err != nil {
		return 0, l.err
	}
	return l.points, nil
}

func TestCreateAppliesCouponDiscount(t *testing.T) {
	store := newStoreStub()
	c := &coupon.Coupon{ID: uuid.New(), Code: "WELCOME20"}
	coupons := &couponStub{
		result: coupon.Result{Valid: true, DiscountAmount: 40},
		coupon: c,
	}
	svc := order.NewService(store, coupons, &loyaltyStub{})

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: uuid.New().String(),
		Subtotal:   200,
		CouponCode: "WELCOME20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.DiscountAmount != 40 || o.TotalAmount != 160 {
		t.Fatalf("discount/total = %v/%v, want 40/160", o.DiscountAmount, o.TotalAmount)
	}
	if o.CouponID == nil || *o.CouponID != c.ID {
		t.Fatal("order must carry the applied coupon id")
	}
	if coupons.usageCalls != 0 {
		t.Fatal("creating an order must not consume coupon usage")
	}
}

func TestCreateRejectsInvalidCoupon(t *testing.T) {
	coupons := &couponStub{result: coupon.Result{Valid: false, Message: "Invalid coupon code"}}
	svc := order.NewService(newStoreStub(), coupons, &loyaltyStub{})

	_, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: uuid.New().String(),
		Subtotal:   200,
		CouponCode: "NOPE",
	})
	if !errors.Is(err, order.ErrCouponRejected) {
		t.Fatalf("expected ErrCouponRejected, got %v", err)
	}
}

func TestCompleteFiresBothEngines(t *testing.T) {
	store := newStoreStub()
	c := &coupon.Coupon{ID: uuid.New(), Code: "WELCOME20"}
	coupons := &couponStub{
		result: coupon.Result{Valid: true, DiscountAmount: 40},
		coupon: c,
	}
	loyalty := &loyaltyStub{points: 16}
	svc := order.NewService(store, coupons, loyalty)

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: uuid.New().String(),
		Subtotal:   200,
		CouponCode: "WELCOME20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed, points, err := svc.Complete(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != order.StatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}
	if coupons.usageCalls != 1 {
		t.Fatalf("coupon usage recorded %d times, want 1", coupons.usageCalls)
	}
	if loyalty.earnCalls != 1 {
		t.Fatalf("points awarded %d times, want 1", loyalty.earnCalls)
	}
	// Points accrue on what the customer actually paid, not the subtotal.
	if loyalty.amount != 160 {
		t.Fatalf("points accrued on %v, want 160", loyalty.amount)
	}
	if points != 16 {
		t.Fatalf("points = %d, want 16", points)
	}
}

func TestCompleteIsNotRepeatable(t *testing.T) {
	store := newStoreStub()
	coupons := &couponStub{}
	loyalty := &loyaltyStub{points: 5}
	svc := order.NewService(store, coupons, loyalty)

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: uuid.New().String(),
		Subtotal:   50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.Complete(context.Background(), o.ID); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if _, _, err := svc.Complete(context.Background(), o.ID); !errors.Is(err, order.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
	if loyalty.earnCalls != 1 {
		t.Fatalf("points awarded %d times, want exactly 1", loyalty.earnCalls)
	}
}

func TestCompleteCancelledOrder(t *testing.T) {
	store := newStoreStub()
	svc := order.NewService(store, &couponStub{}, &loyaltyStub{})

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: uuid.New().String(),
		Subtotal:   50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), o.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, _, err := svc.Complete(context.Background(), o.ID); !errors.Is(err, order.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestCompleteSurvivesLoyaltyFailure(t *testing.T) {
	store := newStoreStub()
	loyalty := &loyaltyStub{err: errors.New("loyalty unavailable")}
	svc := order.NewService(store, &couponStub{}, loyalty)

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: uuid.New().String(),
		Subtotal:   50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed, points, err := svc.Complete(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("completion must not fail on engine errors, got %v", err)
	}
	if completed.Status != order.StatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}
	if points != 0 {
		t.Fatalf("points = %d, want 0", points)
	}
}
