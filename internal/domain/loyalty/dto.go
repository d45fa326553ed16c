package loyalty

import "time"

// ConfigRequest updates the singleton program configuration
type ConfigRequest struct {
	PointsPerAmount float64 `json:"points_per_amount" validate:"required,gt=0"`
	PointValue      float64 `json:"point_value" validate:"required,gt=0"`
	IsActive        bool    `json:"is_active"`
}

// RewardCreateRequest for creating a reward catalog entry
type RewardCreateRequest struct {
	Name              string     `json:"name" validate:"required,max=255"`
	Description       string     `json:"description" validate:"required,max=2000"`
	Type              string     `json:"type" validate:"required,reward_type"`
	PointsRequired    int        `json:"points_required" validate:"required,gt=0"`
	RewardValue       float64    `json:"reward_value" validate:"required,gt=0"`
	MaxDiscountAmount *float64   `json:"max_discount_amount" validate:"omitempty,gt=0"`
	ApplicableItems   []string   `json:"applicable_items"`
	UsageLimit        *int       `json:"usage_limit" validate:"omitempty,gt=0"`
	ValidUntil        *time.Time `json:"valid_until"`
	ExpirationDays    *int       `json:"expiration_days" validate:"omitempty,gt=0"`
}

// RewardUpdateRequest for updating a reward; absent fields are left unchanged
type RewardUpdateRequest struct {
	Name              *string    `json:"name" validate:"omitempty,max=255"`
	Description       *string    `json:"description" validate:"omitempty,max=2000"`
	Type              *string    `json:"type" validate:"omitempty,reward_type"`
	PointsRequired    *int       `json:"points_required" validate:"omitempty,gt=0"`
	RewardValue       *float64   `json:"reward_value" validate:"omitempty,gt=0"`
	MaxDiscountAmount *float64   `json:"max_discount_amount" validate:"omitempty,gt=0"`
	ApplicableItems   []string   `json:"applicable_items"`
	IsActive          *bool      `json:"is_active"`
	UsageLimit        *int       `json:"usage_limit" validate:"omitempty,gt=0"`
	ValidUntil        *time.Time `json:"valid_until"`
	ExpirationDays    *int       `json:"expiration_days" validate:"omitempty,gt=0"`
}

// EarnRequest credits points for a paid order
type EarnRequest struct {
	CustomerID    string  `json:"customer_id" validate:"required,uuid"`
	CustomerEmail string  `json:"customer_email" validate:"omitempty,email"`
	OrderID       string  `json:"order_id" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

// RedeemRequest exchanges points for a reward. The optional order amount is
// only used to report the monetary benefit of percentage rewards.
type RedeemRequest struct {
	CustomerID  string  `json:"customer_id" validate:"required,uuid"`
	RewardID    string  `json:"reward_id" validate:"required,uuid"`
	OrderAmount float64 `json:"order_amount" validate:"omitempty,gt=0"`
}

// EarnResponse reports the credited points
type EarnResponse struct {
	PointsEarned int `json:"points_earned"`
}

// RedeemResponse reports the debited points and the remaining balance
type RedeemResponse struct {
	RewardID        string  `json:"reward_id"`
	RewardName      string  `json:"reward_name"`
	PointsUsed      int     `json:"points_used"`
	RemainingPoints int     `json:"remaining_points"`
	BenefitValue    float64 `json:"benefit_value"`
}
