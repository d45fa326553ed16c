package coupon

import "errors"

var (
	ErrNotFound             = errors.New("coupon not found")
	ErrCodeTaken            = errors.New("coupon code already exists")
	ErrUsageLimitReached    = errors.New("coupon usage limit reached")
	ErrInvalidSchedule      = errors.New("end date must be after start date")
	ErrInvalidDiscountValue = errors.New("discount value out of range for discount type")
	ErrNoCustomersSelected  = errors.New("customer-specific coupon requires at least one customer")
)
