package coupon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of validating a coupon against an order context.
// Rejections are reported, never raised: the message is safe to show verbatim.
type Result struct {
	Valid          bool
	DiscountAmount float64
	Message        string
}

// Validate decides whether a coupon may be applied to a prospective order
// and computes the resulting discount. Checks run in order and the first
// failure wins. The function is pure: repeated calls with the same inputs
// return the same result, and usage is never consumed here — recording a
// redemption is a separate mutation invoked after the order completes.
func Validate(c *Coupon, orderAmount float64, customerID uuid.UUID, now time.Time) Result {
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return Result{Message: "This coupon is expired or not yet active"}
	}

	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return Result{Message: "This coupon has reached its usage limit"}
	}

	if c.MinimumOrderAmount != nil && orderAmount < *c.MinimumOrderAmount {
		return Result{Message: fmt.Sprintf("A minimum order of %.2f is required to use this coupon", *c.MinimumOrderAmount)}
	}

	if !c.EligibleCustomer(customerID) {
		return Result{Message: "This coupon is not valid for your account"}
	}

	discount := Discount(c, orderAmount)
	return Result{
		Valid:          true,
		DiscountAmount: discount,
		Message:        fmt.Sprintf("Coupon applied! You save %.2f", discount),
	}
}

// Discount computes the discount amount for an order total.
// Percentage discounts are clamped to the optional cap. Fixed discounts are
// deliberately not clamped to the order total; the caller floors the payable
// amount at zero downstream.
func Discount(c *Coupon, orderAmount float64) float64 {
	switch c.DiscountType {
	case DiscountPercentage:
		d := orderAmount * c.DiscountValue / 100
		if c.MaxDiscountAmount != nil && d > *c.MaxDiscountAmount {
			d = *c.MaxDiscountAmount
		}
		return d
	case DiscountFixed:
		return c.DiscountValue
	}
	return 0
}
