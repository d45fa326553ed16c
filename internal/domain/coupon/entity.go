package coupon

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DiscountType determines how the discount amount is computed
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Availability restricts which customers may use a coupon
type Availability string

const (
	AvailableForAll      Availability = "all"
	AvailableForSpecific Availability = "specific"
)

// Coupon is a one-time-redeemable discount code with eligibility constraints
type Coupon struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Code string    `db:"code" json:"code"`

	// Discount rule
	DiscountType      DiscountType `db:"discount_type" json:"discount_type"`
	DiscountValue     float64      `db:"discount_value" json:"discount_value"`
	MaxDiscountAmount *float64     `db:"max_discount_amount" json:"max_discount_amount,omitempty"`

	// Eligibility
	MinimumOrderAmount *float64       `db:"minimum_order_amount" json:"minimum_order_amount,omitempty"`
	UsageLimit         *int           `db:"usage_limit" json:"usage_limit,omitempty"`
	UsageCount         int            `db:"usage_count" json:"usage_count"`
	AvailableFor       Availability   `db:"available_for" json:"available_for"`
	CustomerIDs        pq.StringArray `db:"customer_ids" json:"customer_ids,omitempty"`

	// Activity window
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsActive  bool      `db:"is_active" json:"is_active"`

	NotifyByEmail bool `db:"notify_by_email" json:"notify_by_email"`

	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EligibleCustomer reports whether the customer is on the allowlist.
// Coupons available to everyone accept any customer, including anonymous.
func (c *Coupon) EligibleCustomer(customerID uuid.UUID) bool {
	if c.AvailableFor != AvailableForSpecific {
		return true
	}
	if customerID == uuid.Nil {
		return false
	}
	id := customerID.String()
	for _, allowed := range c.CustomerIDs {
		if allowed == id {
			return true
		}
	}
	return false
}
