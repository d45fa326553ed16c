package loyalty_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/dinehub/dinehub-api/internal/domain/loyalty"
)

func customer(points, earned, redeemed int) loyalty.CustomerLoyalty {
	return loyalty.CustomerLoyalty{
		CustomerID:     uuid.New(),
		TotalPoints:    points,
		PointsEarned:   earned,
		PointsRedeemed: redeemed,
	}
}

func redemption(rewardID uuid.UUID) loyalty.Transaction {
	return loyalty.Transaction{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Type:       loyalty.TransactionRedeemed,
		Points:     50,
		RewardID:   &rewardID,
	}
}

func TestBuildAnalyticsAggregates(t *testing.T) {
	snap := &loyalty.Snapshot{
		Config: activeConfig(), // point value 0.5
		Customers: []loyalty.CustomerLoyalty{
			customer(120, 200, 80),
			customer(0, 50, 50),
			customer(600, 600, 0),
		},
	}

	a := loyalty.BuildAnalytics(snap)

	if a.TotalCustomers != 3 {
		t.Fatalf("total customers = %d, want 3", a.TotalCustomers)
	}
	if a.ActiveCustomers != 2 {
		t.Fatalf("active customers = %d, want 2", a.ActiveCustomers)
	}
	if a.TotalPointsIssued != 850 || a.TotalPointsRedeemed != 130 {
		t.Fatalf("issued/redeemed = %d/%d, want 850/130", a.TotalPointsIssued, a.TotalPointsRedeemed)
	}
	if a.OutstandingPoints != 720 {
		t.Fatalf("outstanding = %d, want 720", a.OutstandingPoints)
	}
	if a.OutstandingPoints != a.TotalPointsIssued-a.TotalPointsRedeemed {
		t.Fatal("outstanding points must equal issued minus redeemed")
	}
	if a.OutstandingValue != 360 {
		t.Fatalf("outstanding value = %v, want 360", a.OutstandingValue)
	}
	if a.AveragePoints != 240 {
		t.Fatalf("average points = %v, want 240", a.AveragePoints)
	}

	wantRate := float64(130) / float64(850) * 100
	if a.RedemptionRate != wantRate {
		t.Fatalf("redemption rate = %v, want %v", a.RedemptionRate, wantRate)
	}
}

func TestBuildAnalyticsTierDistribution(t *testing.T) {
	snap := &loyalty.Snapshot{
		Config: activeConfig(),
		Customers: []loyalty.CustomerLoyalty{
			customer(0, 0, 0),
			customer(99, 99, 0),
			customer(100, 100, 0),
			customer(500, 500, 0),
			customer(1000, 1000, 0),
		},
	}

	a := loyalty.BuildAnalytics(snap)

	want := map[string]int{"Bronze": 2, "Silver": 1, "Gold": 1, "Platinum": 1}
	for name, n := range want {
		if a.TierDistribution[name] != n {
			t.Errorf("tier %s = %d, want %d", name, a.TierDistribution[name], n)
		}
	}
}

func TestBuildAnalyticsEmptyProgram(t *testing.T) {
	a := loyalty.BuildAnalytics(&loyalty.Snapshot{})

	if a.RedemptionRate != 0 {
		t.Fatalf("empty program redemption rate = %v, want 0", a.RedemptionRate)
	}
	if a.AveragePoints != 0 {
		t.Fatalf("empty program average = %v, want 0", a.AveragePoints)
	}
	if len(a.TopRewards) != 0 {
		t.Fatalf("empty program has top rewards: %v", a.TopRewards)
	}
}

func TestTopRewardsDerivedFromLedger(t *testing.T) {
	snap := &loyalty.Snapshot{Config: activeConfig()}

	// Seven rewards redeemed an uneven number of times each.
	for i := 0; i < 7; i++ {
		r := dessertReward()
		r.Name = fmt.Sprintf("Reward %d", i)
		snap.Rewards = append(snap.Rewards, loyalty.RewardWithUsage{Reward: *r})
		for n := 0; n <= i; n++ {
			snap.Transactions = append(snap.Transactions, redemption(r.ID))
		}
	}

	a := loyalty.BuildAnalytics(snap)

	if len(a.TopRewards) != 5 {
		t.Fatalf("expected top 5 rewards, got %d", len(a.TopRewards))
	}
	if a.TopRewards[0].Name != "Reward 6" || a.TopRewards[0].Redemptions != 7 {
		t.Fatalf("unexpected leader: %+v", a.TopRewards[0])
	}
	for i := 1; i < len(a.TopRewards); i++ {
		if a.TopRewards[i].Redemptions > a.TopRewards[i-1].Redemptions {
			t.Fatal("top rewards are not sorted by redemptions")
		}
	}
}

func TestTopRewardsIgnoresEarnedEntries(t *testing.T) {
	r := dessertReward()
	orderID := uuid.New()

	snap := &loyalty.Snapshot{
		Config:  activeConfig(),
		Rewards: []loyalty.RewardWithUsage{{Reward: *r}},
		Transactions: []loyalty.Transaction{
			{ID: uuid.New(), CustomerID: uuid.New(), Type: loyalty.TransactionEarned, Points: 20, OrderID: &orderID},
			redemption(r.ID),
		},
	}

	a := loyalty.BuildAnalytics(snap)

	if len(a.TopRewards) != 1 || a.TopRewards[0].Redemptions != 1 {
		t.Fatalf("expected a single redemption, got %v", a.TopRewards)
	}
}
