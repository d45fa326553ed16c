package order

// CreateRequest opens a pending order, optionally applying a coupon code
type CreateRequest struct {
	CustomerID    string  `json:"customer_id" validate:"required,uuid"`
	CustomerEmail string  `json:"customer_email" validate:"omitempty,email"`
	Subtotal      float64 `json:"subtotal" validate:"required,gt=0"`
	CouponCode    string  `json:"coupon_code"`
}

// CompleteResponse reports what the completion triggered
type CompleteResponse struct {
	Order        *Order `json:"order"`
	PointsEarned int    `json:"points_earned"`
}
