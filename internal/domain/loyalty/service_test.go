package loyalty_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dinehub/dinehub-api/internal/domain/loyalty"
)

type storeStub struct {
	config    *loyalty.Config
	configErr error

	customer *loyalty.CustomerLoyalty
	reward   *loyalty.Reward

	earnCalls   int
	earnPoints  int
	redeemCalls int
	redeemErr   error
}

func (s *storeStub) GetConfig(ctx context.Context) (*loyalty.Config, error) {
	if s.configErr != nil {
		return nil, s.configErr
	}
	return s.config, nil
}

func (s *storeStub) SaveConfig(ctx context.Context, cfg *loyalty.Config) error {
	s.config = cfg
	return nil
}

func (s *storeStub) CreateReward(ctx context.Context, r *loyalty.Reward) error {
	s.reward = r
	return nil
}

func (s *storeStub) UpdateReward(ctx context.Context, r *loyalty.Reward) error {
	s.reward = r
	return nil
}

func (s *storeStub) GetReward(ctx context.Context, id uuid.UUID) (*loyalty.RewardWithUsage, error) {
	if s.reward == nil {
		return nil, loyalty.ErrRewardNotFound
	}
	return &loyalty.RewardWithUsage{Reward: *s.reward}, nil
}

func (s *storeStub) ListRewards(ctx context.Context, includeInactive bool) ([]loyalty.RewardWithUsage, error) {
	if s.reward == nil {
		return nil, nil
	}
	return []loyalty.RewardWithUsage{{Reward: *s.reward}}, nil
}

func (s *storeStub) DeactivateReward(ctx context.Context, id uuid.UUID) error { return nil }

func (s *storeStub) GetCustomer(ctx context.Context, id uuid.UUID) (*loyalty.CustomerLoyalty, error) {
	if s.customer == nil {
		return nil, loyalty.ErrCustomerNotFound
	}
	return s.customer, nil
}

func (s *storeStub) ListTransactions(ctx context.Context, id uuid.UUID, limit, offset int) ([]loyalty.Transaction, int, error) {
	return nil, 0, nil
}

func (s *storeStub) Earn(ctx context.Context, customerID uuid.UUID, email string, orderID uuid.UUID, points int) (*loyalty.CustomerLoyalty, error) {
	s.earnCalls++
	s.earnPoints = points
	if s.customer == nil {
		s.customer = &loyalty.CustomerLoyalty{CustomerID: customerID, CustomerEmail: email}
	}
	s.customer.TotalPoints += points
	s.customer.PointsEarned += points
	return s.customer, nil
}

func (s *storeStub) Redeem(ctx context.Context, customerID, rewardID uuid.UUID, now time.Time) (*loyalty.Reward, *loyalty.CustomerLoyalty, error) {
	s.redeemCalls++
	if s.redeemErr != nil {
		return nil, nil, s.redeemErr
	}
	s.customer.TotalPoints -= s.reward.PointsRequired
	s.customer.PointsRedeemed += s.reward.PointsRequired
	return s.reward, s.customer, nil
}

func (s *storeStub) Snapshot(ctx context.Context) (*loyalty.Snapshot, error) {
	return &loyalty.Snapshot{Config: s.config}, nil
}

func TestEarnPointsCreditsFlooredPoints(t *testing.T) {
	store := &storeStub{config: &loyalty.Config{PointsPerAmount: 100, PointValue: 1, IsActive: true}}
	svc := loyalty.NewService(store, nil)

	points, err := svc.EarnPoints(context.Background(), uuid.New(), "guest@example.com", uuid.New(), 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points != 2 {
		t.Fatalf("earned %d points, want 2", points)
	}
	if store.earnCalls != 1 || store.earnPoints != 2 {
		t.Fatalf("store recorded %d calls with %d points", store.earnCalls, store.earnPoints)
	}
}

func TestEarnPointsBelowThresholdWritesNothing(t *testing.T) {
	store := &storeStub{config: &loyalty.Config{PointsPerAmount: 100, PointValue: 1, IsActive: true}}
	svc := loyalty.NewService(store, nil)

	points, err := svc.EarnPoints(context.Background(), uuid.New(), "", uuid.New(), 99.99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points != 0 {
		t.Fatalf("earned %d points, want 0", points)
	}
	if store.earnCalls != 0 {
		t.Fatal("sub-threshold amount must not touch the store")
	}
}

func TestEarnPointsRejectsNonPositiveAmount(t *testing.T) {
	svc := loyalty.NewService(&storeStub{}, nil)

	if _, err := svc.EarnPoints(context.Background(), uuid.New(), "", uuid.New(), -5); !errors.Is(err, loyalty.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestEarnPointsConfigNotInitialized(t *testing.T) {
	store := &storeStub{configErr: loyalty.ErrConfigNotInitialized}
	svc := loyalty.NewService(store, nil)

	if _, err := svc.EarnPoints(context.Background(), uuid.New(), "", uuid.New(), 100); !errors.Is(err, loyalty.ErrConfigNotInitialized) {
		t.Fatalf("expected ErrConfigNotInitialized, got %v", err)
	}
}

func TestRedeemRewardInactiveProgram(t *testing.T) {
	store := &storeStub{config: &loyalty.Config{PointsPerAmount: 100, PointValue: 1, IsActive: false}}
	svc := loyalty.NewService(store, nil)

	_, _, err := svc.RedeemReward(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, loyalty.ErrProgramInactive) {
		t.Fatalf("expected ErrProgramInactive, got %v", err)
	}
	if store.redeemCalls != 0 {
		t.Fatal("inactive program must not reach the store")
	}
}

func TestRedeemRewardInsufficientPoints(t *testing.T) {
	store := &storeStub{
		config:    &loyalty.Config{PointsPerAmount: 100, PointValue: 1, IsActive: true},
		redeemErr: loyalty.ErrInsufficientPoints,
	}
	svc := loyalty.NewService(store, nil)

	if _, _, err := svc.RedeemReward(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, loyalty.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestRedeemRewardDebitsBalance(t *testing.T) {
	r := dessertReward()
	store := &storeStub{
		config:   &loyalty.Config{PointsPerAmount: 100, PointValue: 1, IsActive: true},
		reward:   r,
		customer: &loyalty.CustomerLoyalty{CustomerID: uuid.New(), TotalPoints: 120, PointsEarned: 120},
	}
	svc := loyalty.NewService(store, nil)

	reward, customer, err := svc.RedeemReward(context.Background(), store.customer.CustomerID, r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reward.ID != r.ID {
		t.Fatalf("redeemed wrong reward: %v", reward.ID)
	}
	if customer.TotalPoints != 70 {
		t.Fatalf("balance = %d, want 70", customer.TotalPoints)
	}
	if customer.TotalPoints != customer.PointsEarned-customer.PointsRedeemed {
		t.Fatal("balance must equal earned minus redeemed")
	}
}

func TestCreateRewardRejectsInvalidConfiguration(t *testing.T) {
	store := &storeStub{}
	svc := loyalty.NewService(store, nil)

	_, err := svc.CreateReward(context.Background(), &loyalty.RewardCreateRequest{
		Name:           "Too generous",
		Description:    "Percentage over 100",
		Type:           "percentage_discount",
		PointsRequired: 100,
		RewardValue:    250,
	})

	var ve *loyalty.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["reward_value"]; !ok {
		t.Fatalf("expected a reward_value violation, got %v", ve.Fields)
	}
	if store.reward != nil {
		t.Fatal("invalid reward must not be persisted")
	}
}

func TestGetCustomerSummaryComputesTier(t *testing.T) {
	store := &storeStub{
		config:   &loyalty.Config{PointsPerAmount: 10, PointValue: 0.5, IsActive: true},
		customer: &loyalty.CustomerLoyalty{CustomerID: uuid.New(), TotalPoints: 650, PointsEarned: 650},
	}
	svc := loyalty.NewService(store, nil)

	summary, err := svc.GetCustomerSummary(context.Background(), store.customer.CustomerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Tier.Name != "Gold" {
		t.Fatalf("tier = %s, want Gold", summary.Tier.Name)
	}
	if summary.PointsValue != 325 {
		t.Fatalf("points value = %v, want 325", summary.PointsValue)
	}
}
