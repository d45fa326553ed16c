package coupon

import (
	"time"
)

// CreateRequest for creating a new coupon
type CreateRequest struct {
	Code               string    `json:"code" validate:"required,coupon_code"`
	DiscountType       string    `json:"discount_type" validate:"required,discount_type"`
	DiscountValue      float64   `json:"discount_value" validate:"required,gt=0"`
	MaxDiscountAmount  *float64  `json:"max_discount_amount" validate:"omitempty,gt=0"`
	MinimumOrderAmount *float64  `json:"minimum_order_amount" validate:"omitempty,gt=0"`
	UsageLimit         *int      `json:"usage_limit" validate:"omitempty,gt=0"`
	AvailableFor       string    `json:"available_for" validate:"omitempty,oneof=all specific"`
	CustomerIDs        []string  `json:"customer_ids" validate:"omitempty,dive,uuid"`
	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required"`
	NotifyByEmail      bool      `json:"notify_by_email"`
}

// UpdateRequest for updating an existing coupon
type UpdateRequest struct {
	DiscountType       string    `json:"discount_type" validate:"omitempty,discount_type"`
	DiscountValue      *float64  `json:"discount_value" validate:"omitempty,gt=0"`
	MaxDiscountAmount  *float64  `json:"max_discount_amount" validate:"omitempty,gt=0"`
	MinimumOrderAmount *float64  `json:"minimum_order_amount" validate:"omitempty,gt=0"`
	UsageLimit         *int      `json:"usage_limit" validate:"omitempty,gt=0"`
	AvailableFor       string    `json:"available_for" validate:"omitempty,oneof=all specific"`
	CustomerIDs        []string  `json:"customer_ids" validate:"omitempty,dive,uuid"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	IsActive           *bool      `json:"is_active"`
	NotifyByEmail      *bool      `json:"notify_by_email"`
}

// ValidateRequest is a POS-side eligibility check for a prospective order
type ValidateRequest struct {
	Code        string  `json:"code" validate:"required"`
	OrderAmount float64 `json:"order_amount" validate:"required,gt=0"`
	CustomerID  string  `json:"customer_id" validate:"omitempty,uuid"`
}

// ValidateResponse reports the engine outcome
type ValidateResponse struct {
	IsValid        bool      `json:"is_valid"`
	DiscountAmount float64   `json:"discount_amount,omitempty"`
	Message        string    `json:"message"`
	Coupon         *Response `json:"coupon,omitempty"`
}

// Response for API responses
type Response struct {
	ID                 string   `json:"id"`
	Code               string   `json:"code"`
	DiscountType       string   `json:"discount_type"`
	DiscountValue      float64  `json:"discount_value"`
	MaxDiscountAmount  *float64 `json:"max_discount_amount,omitempty"`
	MinimumOrderAmount *float64 `json:"minimum_order_amount,omitempty"`
	UsageLimit         *int     `json:"usage_limit,omitempty"`
	UsageCount         int      `json:"usage_count"`
	AvailableFor       string   `json:"available_for"`
	CustomerIDs        []string `json:"customer_ids,omitempty"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	IsActive           bool     `json:"is_active"`
	NotifyByEmail      bool     `json:"notify_by_email"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// ToResponse converts entity to response
func (c *Coupon) ToResponse() *Response {
	return &Response{
		ID:                 c.ID.String(),
		Code:               c.Code,
		DiscountType:       string(c.DiscountType),
		DiscountValue:      c.DiscountValue,
		MaxDiscountAmount:  c.MaxDiscountAmount,
		MinimumOrderAmount: c.MinimumOrderAmount,
		UsageLimit:         c.UsageLimit,
		UsageCount:         c.UsageCount,
		AvailableFor:       string(c.AvailableFor),
		CustomerIDs:        c.CustomerIDs,
		StartDate:          c.StartDate.Format(time.RFC3339),
		EndDate:            c.EndDate.Format(time.RFC3339),
		IsActive:           c.IsActive,
		NotifyByEmail:      c.NotifyByEmail,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          c.UpdatedAt.Format(time.RFC3339),
	}
}
