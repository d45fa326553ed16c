package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrStaffNotFound      = errors.New("staff not found")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)
