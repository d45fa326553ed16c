package loyalty

import "errors"

var (
	ErrConfigNotInitialized = errors.New("loyalty program is not configured")
	ErrProgramInactive      = errors.New("loyalty program is inactive")
	ErrCustomerNotFound     = errors.New("customer has no loyalty record")
	ErrRewardNotFound       = errors.New("reward not found")
	ErrRewardNotRedeemable  = errors.New("reward is not redeemable")
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrInvalidAmount        = errors.New("invalid amount: must be greater than 0")
)

// ValidationError carries the aggregated reward-configuration violations
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid reward configuration"
}
