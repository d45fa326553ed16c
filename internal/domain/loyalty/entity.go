package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RewardType determines how a redeemed reward is interpreted
type RewardType string

const (
	RewardFreeItem           RewardType = "free_item"
	RewardFixedDiscount      RewardType = "fixed_discount"
	RewardPercentageDiscount RewardType = "percentage_discount"
)

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionRedeemed TransactionType = "redeemed"
)

// Config is the singleton program configuration. Created once, mutated only
// through the update operation, never deleted.
type Config struct {
	PointsPerAmount float64   `db:"points_per_amount" json:"points_per_amount"` // currency units per 1 point
	PointValue      float64   `db:"point_value" json:"point_value"`             // currency value of 1 point
	IsActive        bool      `db:"is_active" json:"is_active"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Reward is a catalog entry redeemable for points
type Reward struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Type        RewardType `db:"type" json:"type"`

	PointsRequired    int      `db:"points_required" json:"points_required"`
	RewardValue       float64  `db:"reward_value" json:"reward_value"`
	MaxDiscountAmount *float64 `db:"max_discount_amount" json:"max_discount_amount,omitempty"`

	ApplicableItems pq.StringArray `db:"applicable_items" json:"applicable_items,omitempty"`

	IsActive       bool       `db:"is_active" json:"is_active"`
	UsageLimit     *int       `db:"usage_limit" json:"usage_limit,omitempty"`
	ValidUntil     *time.Time `db:"valid_until" json:"valid_until,omitempty"`
	ExpirationDays *int       `db:"expiration_days" json:"expiration_days,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RewardWithUsage pairs a reward with its redemption count derived from the
// ledger. Usage is never stored on the reward row; the ledger is the single
// source of truth.
type RewardWithUsage struct {
	Reward
	UsageCount int `db:"usage_count" json:"usage_count"`
}

// CustomerLoyalty is one customer's point balance. The invariant
// TotalPoints == PointsEarned - PointsRedeemed holds at all times.
type CustomerLoyalty struct {
	CustomerID     uuid.UUID `db:"customer_id" json:"customer_id"`
	CustomerEmail  string    `db:"customer_email" json:"customer_email"`
	TotalPoints    int       `db:"total_points" json:"total_points"`
	PointsEarned   int       `db:"points_earned" json:"points_earned"`
	PointsRedeemed int       `db:"points_redeemed" json:"points_redeemed"`
	LastUpdated    time.Time `db:"last_updated" json:"last_updated"`
}

// Transaction is an immutable, append-only ledger entry
type Transaction struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	CustomerID uuid.UUID       `db:"customer_id" json:"customer_id"`
	Type       TransactionType `db:"type" json:"type"`
	Points     int             `db:"points" json:"points"` // positive magnitude
	OrderID    *uuid.UUID      `db:"order_id" json:"order_id,omitempty"`
	RewardID   *uuid.UUID      `db:"reward_id" json:"reward_id,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Tier is a named loyalty level derived from a customer's point balance
type Tier struct {
	Name           string   `json:"name"`
	MinPoints      int      `json:"min_points"`
	NextTierPoints *int     `json:"next_tier_points,omitempty"`
	PointsToNext   *int     `json:"points_to_next,omitempty"`
	Benefits       []string `json:"benefits"`
}

// Snapshot is an immutable view of the whole program used by analytics
type Snapshot struct {
	Config       *Config
	Customers    []CustomerLoyalty
	Rewards      []RewardWithUsage
	Transactions []Transaction
}
