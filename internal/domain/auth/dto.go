package auth

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateStaffRequest registers a new back-office account (admin only)
type CreateStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,staff_role"`
}

type StaffResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

type LoginResponse struct {
	Staff  StaffResponse  `json:"staff"`
	Tokens TokensResponse `json:"tokens"`
}

func toStaffResponse(s *Staff) StaffResponse {
	return StaffResponse{
		ID:        s.ID,
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role,
		CreatedAt: s.CreatedAt,
	}
}
