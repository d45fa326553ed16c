package coupon_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dinehub/dinehub-api/internal/domain/coupon"
)

type storeStub struct {
	byCode     map[string]*coupon.Coupon
	byID       map[uuid.UUID]*coupon.Coupon
	created    *coupon.Coupon
	increments int
}

func newStoreStub(coupons ...*coupon.Coupon) *storeStub {
	s := &storeStub{
		byCode: map[string]*coupon.Coupon{},
		byID:   map[uuid.UUID]*coupon.Coupon{},
	}
	for _, c := range coupons {
		s.byCode[c.Code] = c
		s.byID[c.ID] = c
	}
	return s
}

func (s *storeStub) Create(_ context.Context, c *coupon.Coupon) error {
	if _, ok := s.byCode[c.Code]; ok {
		return coupon.ErrCodeTaken
	}
	s.created = c
	s.byCode[c.Code] = c
	s.byID[c.ID] = c
	return nil
}

func (s *storeStub) Update(_ context.Context, c *coupon.Coupon) error { return nil }

func (s *storeStub) GetByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, coupon.ErrNotFound
}

func (s *storeStub) GetActiveByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	if c, ok := s.byCode[code]; ok && c.IsActive {
		return c, nil
	}
	return nil, coupon.ErrNotFound
}

func (s *storeStub) List(context.Context, bool, int, int) ([]coupon.Coupon, int, error) {
	return nil, 0, nil
}

func (s *storeStub) Deactivate(_ context.Context, id uuid.UUID) error {
	c, ok := s.byID[id]
	if !ok {
		return coupon.ErrNotFound
	}
	c.IsActive = false
	return nil
}

func (s *storeStub) IncrementUsage(_ context.Context, id uuid.UUID) error {
	c, ok := s.byID[id]
	if !ok {
		return coupon.ErrNotFound
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return coupon.ErrUsageLimitReached
	}
	c.UsageCount++
	s.increments++
	return nil
}

func TestValidateCodeUnknownCode(t *testing.T) {
	svc := coupon.NewService(newStoreStub(), nil, nil, nil)

	res, c, err := svc.ValidateCode(context.Background(), "NOPE42", 100, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid for unknown code")
	}
	if res.Message != "Invalid coupon code" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if c != nil {
		t.Fatal("no coupon expected on rejection")
	}
}

func TestValidateCodeNormalizesInput(t *testing.T) {
	store := newStoreStub(welcomeCoupon())
	svc := coupon.NewService(store, nil, nil, nil)

	res, c, err := svc.ValidateCode(context.Background(), "  welcome20 ", 300, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid after normalization, got %q", res.Message)
	}
	if c == nil || c.Code != "WELCOME20" {
		t.Fatal("expected the WELCOME20 coupon back")
	}
}

func TestValidateCodeDoesNotConsumeUsage(t *testing.T) {
	store := newStoreStub(welcomeCoupon())
	svc := coupon.NewService(store, nil, nil, nil)

	for i := 0; i < 3; i++ {
		if _, _, err := svc.ValidateCode(context.Background(), "WELCOME20", 300, uuid.Nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if store.increments != 0 {
		t.Fatalf("validation consumed usage %d times", store.increments)
	}
}

func TestRecordUsageLimit(t *testing.T) {
	c := welcomeCoupon()
	c.UsageCount = 99
	store := newStoreStub(c)
	svc := coupon.NewService(store, nil, nil, nil)

	if err := svc.RecordUsage(context.Background(), c.ID); err != nil {
		t.Fatalf("expected final usage to succeed: %v", err)
	}
	err := svc.RecordUsage(context.Background(), c.ID)
	if !errors.Is(err, coupon.ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
}

func TestCreateRejectsBadSchedule(t *testing.T) {
	svc := coupon.NewService(newStoreStub(), nil, nil, nil)

	now := time.Now()
	_, err := svc.Create(context.Background(), &coupon.CreateRequest{
		Code:          "LATTE5",
		DiscountType:  "fixed",
		DiscountValue: 5,
		StartDate:     now,
		EndDate:       now.Add(-time.Hour),
	}, uuid.New())
	if !errors.Is(err, coupon.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestCreateRejectsPercentageOver100(t *testing.T) {
	svc := coupon.NewService(newStoreStub(), nil, nil, nil)

	now := time.Now()
	_, err := svc.Create(context.Background(), &coupon.CreateRequest{
		Code:          "BIGOFF",
		DiscountType:  "percentage",
		DiscountValue: 120,
		StartDate:     now,
		EndDate:       now.Add(time.Hour),
	}, uuid.New())
	if !errors.Is(err, coupon.ErrInvalidDiscountValue) {
		t.Fatalf("expected ErrInvalidDiscountValue, got %v", err)
	}
}

func TestCreateRejectsSpecificWithoutCustomers(t *testing.T) {
	svc := coupon.NewService(newStoreStub(), nil, nil, nil)

	now := time.Now()
	_, err := svc.Create(context.Background(), &coupon.CreateRequest{
		Code:          "VIPONLY",
		DiscountType:  "fixed",
		DiscountValue: 10,
		AvailableFor:  "specific",
		StartDate:     now,
		EndDate:       now.Add(time.Hour),
	}, uuid.New())
	if !errors.Is(err, coupon.ErrNoCustomersSelected) {
		t.Fatalf("expected ErrNoCustomersSelected, got %v", err)
	}
}
