package loyalty

import "sort"

// RewardStat is one row of the top-rewards report
type RewardStat struct {
	RewardID    string `json:"reward_id"`
	Name        string `json:"name"`
	Redemptions int    `json:"redemptions"`
}

// Analytics is the fleet-wide loyalty report consumed by the admin dashboard
// and report exports.
type Analytics struct {
	TotalCustomers      int            `json:"total_customers"`
	ActiveCustomers     int            `json:"active_customers"` // total_points > 0
	TotalPointsIssued   int            `json:"total_points_issued"`
	TotalPointsRedeemed int            `json:"total_points_redeemed"`
	OutstandingPoints   int            `json:"outstanding_points"`
	OutstandingValue    float64        `json:"outstanding_value"`
	AveragePoints       float64        `json:"average_points"`
	RedemptionRate      float64        `json:"redemption_rate"` // percent
	TopRewards          []RewardStat   `json:"top_rewards"`
	TierDistribution    map[string]int `json:"tier_distribution"`
}

const topRewardCount = 5

// BuildAnalytics reduces an immutable program snapshot to the aggregate
// report. Reward popularity is derived from the transaction ledger, not from
// any counter field, so the report cannot diverge from the source of truth.
func BuildAnalytics(snap *Snapshot) *Analytics {
	a := &Analytics{
		TierDistribution: make(map[string]int),
		TopRewards:       []RewardStat{},
	}

	for i := range snap.Customers {
		c := &snap.Customers[i]
		a.TotalCustomers++
		if c.TotalPoints > 0 {
			a.ActiveCustomers++
		}
		a.TotalPointsIssued += c.PointsEarned
		a.TotalPointsRedeemed += c.PointsRedeemed
		a.OutstandingPoints += c.TotalPoints
		a.TierDistribution[TierFor(c.TotalPoints).Name]++
	}

	a.OutstandingValue = PointsValue(a.OutstandingPoints, snap.Config)
	if a.TotalCustomers > 0 {
		a.AveragePoints = float64(a.OutstandingPoints) / float64(a.TotalCustomers)
	}
	if a.TotalPointsIssued > 0 {
		a.RedemptionRate = float64(a.TotalPointsRedeemed) / float64(a.TotalPointsIssued) * 100
	}

	a.TopRewards = topRewards(snap)
	return a
}

func topRewards(snap *Snapshot) []RewardStat {
	counts := make(map[string]int)
	for i := range snap.Transactions {
		tx := &snap.Transactions[i]
		if tx.Type == TransactionRedeemed && tx.RewardID != nil {
			counts[tx.RewardID.String()]++
		}
	}

	names := make(map[string]string, len(snap.Rewards))
	for i := range snap.Rewards {
		names[snap.Rewards[i].ID.String()] = snap.Rewards[i].Name
	}

	stats := make([]RewardStat, 0, len(counts))
	for id, n := range counts {
		stats = append(stats, RewardStat{RewardID: id, Name: names[id], Redemptions: n})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Redemptions != stats[j].Redemptions {
			return stats[i].Redemptions > stats[j].Redemptions
		}
		return stats[i].Name < stats[j].Name
	})

	if len(stats) > topRewardCount {
		stats = stats[:topRewardCount]
	}
	return stats
}
