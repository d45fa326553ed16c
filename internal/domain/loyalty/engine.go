package loyalty

import (
	"fmt"
	"math"
	"time"
)

// PointsEarned converts a paid amount to points: floor(amount/pointsPerAmount).
// Integer truncation is intentional, there are no fractional points.
// Returns 0 when the program is inactive or misconfigured.
func PointsEarned(amount float64, cfg *Config) int {
	if cfg == nil || !cfg.IsActive || cfg.PointsPerAmount <= 0 || amount <= 0 {
		return 0
	}
	return int(math.Floor(amount / cfg.PointsPerAmount))
}

// PointsValue converts a point balance to its monetary worth
func PointsValue(points int, cfg *Config) float64 {
	if cfg == nil || points <= 0 {
		return 0
	}
	return float64(points) * cfg.PointValue
}

// EffectiveExpiry resolves the single authoritative expiry of a reward:
// an absolute valid-until wins over a relative expiration window counted
// from creation. Returns false when the reward never expires.
func EffectiveExpiry(r *Reward) (time.Time, bool) {
	if r.ValidUntil != nil {
		return *r.ValidUntil, true
	}
	if r.ExpirationDays != nil {
		return r.CreatedAt.AddDate(0, 0, *r.ExpirationDays), true
	}
	return time.Time{}, false
}

// CanRedeem reports whether a customer with the given balance may redeem the
// reward. usage is the redemption count derived from the ledger.
func CanRedeem(points int, r *Reward, usage int, now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if points < r.PointsRequired {
		return false
	}
	if r.UsageLimit != nil && usage >= *r.UsageLimit {
		return false
	}
	if expiry, ok := EffectiveExpiry(r); ok && !expiry.After(now) {
		return false
	}
	return true
}

// Benefit computes the monetary value of redeeming a reward against an order.
// Free items report their configured worth; percentage discounts clamp to the
// optional cap.
func Benefit(r *Reward, orderAmount float64) float64 {
	switch r.Type {
	case RewardFixedDiscount, RewardFreeItem:
		return r.RewardValue
	case RewardPercentageDiscount:
		d := orderAmount * r.RewardValue / 100
		if r.MaxDiscountAmount != nil && d > *r.MaxDiscountAmount {
			d = *r.MaxDiscountAmount
		}
		return d
	}
	return 0
}

// AvailableRewards filters the catalog down to what the customer can redeem now
func AvailableRewards(points int, rewards []RewardWithUsage, now time.Time) []Reward {
	available := []Reward{}
	for i := range rewards {
		if CanRedeem(points, &rewards[i].Reward, rewards[i].UsageCount, now) {
			available = append(available, rewards[i].Reward)
		}
	}
	return available
}

// Tier bands. Platinum is open-ended.
var tiers = []Tier{
	{Name: "Bronze", MinPoints: 0, Benefits: []string{
		"Earn points on every order",
	}},
	{Name: "Silver", MinPoints: 100, Benefits: []string{
		"Earn points on every order",
		"Birthday reward",
	}},
	{Name: "Gold", MinPoints: 500, Benefits: []string{
		"Earn points on every order",
		"Birthday reward",
		"Priority reservations",
	}},
	{Name: "Platinum", MinPoints: 1000, Benefits: []string{
		"Earn points on every order",
		"Birthday reward",
		"Priority reservations",
		"Complimentary dessert on every visit",
	}},
}

// TierFor buckets a point balance into its loyalty tier. Every tier except
// the top one also reports how far the customer is from the next band.
func TierFor(points int) Tier {
	if points < 0 {
		points = 0
	}

	idx := 0
	for i := range tiers {
		if points >= tiers[i].MinPoints {
			idx = i
		}
	}

	tier := tiers[idx]
	if idx < len(tiers)-1 {
		next := tiers[idx+1].MinPoints
		remaining := next - points
		tier.NextTierPoints = &next
		tier.PointsToNext = &remaining
	}
	return tier
}

// ValidateReward aggregates every violation in a reward configuration rather
// than failing fast: this is authoring-time form validation, not a hot
// eligibility check.
func ValidateReward(r *Reward, now time.Time) map[string]string {
	errs := make(map[string]string)

	if r.Name == "" {
		errs["name"] = "Name is required"
	}
	if r.Description == "" {
		errs["description"] = "Description is required"
	}
	switch r.Type {
	case RewardFreeItem, RewardFixedDiscount, RewardPercentageDiscount:
	default:
		errs["type"] = "Invalid reward type. Must be: free_item, fixed_discount, or percentage_discount"
	}
	if r.PointsRequired <= 0 {
		errs["points_required"] = "Points required must be greater than 0"
	}
	if r.RewardValue <= 0 {
		errs["reward_value"] = "Reward value must be greater than 0"
	} else if r.Type == RewardPercentageDiscount && r.RewardValue > 100 {
		errs["reward_value"] = fmt.Sprintf("Percentage value must be at most 100, got %v", r.RewardValue)
	}
	if r.MaxDiscountAmount != nil && *r.MaxDiscountAmount <= 0 {
		errs["max_discount_amount"] = "Maximum discount must be greater than 0"
	}
	if r.UsageLimit != nil && *r.UsageLimit <= 0 {
		errs["usage_limit"] = "Usage limit must be greater than 0"
	}
	if r.ValidUntil != nil && !r.ValidUntil.After(now) {
		errs["valid_until"] = "Valid-until date must be in the future"
	}
	if r.ExpirationDays != nil && *r.ExpirationDays <= 0 {
		errs["expiration_days"] = "Expiration days must be greater than 0"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
