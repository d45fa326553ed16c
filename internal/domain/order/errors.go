package order

import "errors"

var (
	ErrNotFound         = errors.New("order not found")
	ErrAlreadyCompleted = errors.New("order already completed")
	ErrCancelled        = errors.New("order is cancelled")
	ErrCouponRejected   = errors.New("coupon rejected")
)
