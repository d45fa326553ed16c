package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the order lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Order is a minimal sales record. It exists to drive the coupon and loyalty
// flows: a coupon is applied when the order is created, points are awarded
// when it is completed.
type Order struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CustomerID    uuid.UUID `db:"customer_id" json:"customer_id"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`

	Subtotal       float64    `db:"subtotal" json:"subtotal"`
	DiscountAmount float64    `db:"discount_amount" json:"discount_amount"`
	TotalAmount    float64    `db:"total_amount" json:"total_amount"`
	CouponID       *uuid.UUID `db:"coupon_id" json:"coupon_id,omitempty"`
	CouponCode     *string    `db:"coupon_code" json:"coupon_code,omitempty"`

	Status      Status     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
