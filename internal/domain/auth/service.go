package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dinehub/dinehub-api/internal/pkg/jwt"
	"github.com/dinehub/dinehub-api/internal/pkg/password"
)

// Store is the persistence surface the service needs (interface for testability)
type Store interface {
	Create(ctx context.Context, s *Staff) error
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	List(ctx context.Context) ([]Staff, error)
}

type Service struct {
	store Store
	jwt   *jwt.Service
}

func NewService(store Store, jwtService *jwt.Service) *Service {
	return &Service{store: store, jwt: jwtService}
}

// Login authenticates a staff member and issues a token pair. Lookup and
// password failures collapse into the same error so the response does not
// leak which emails exist.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	staff, err := s.store.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, staff.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !staff.IsActive {
		return nil, ErrAccountDisabled
	}

	log.Info().Str("staff_id", staff.ID.String()).Str("role", string(staff.Role)).Msg("staff login")
	return s.issueTokens(staff)
}

// Refresh rotates a token pair off a valid refresh JWT. Refresh tokens are
// stateless; disabling the account is the revocation mechanism.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	staff, err := s.store.GetByID(ctx, claims.StaffID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if !staff.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(staff)
}

// CreateStaff registers a new back-office account
func (s *Service) CreateStaff(ctx context.Context, req *CreateStaffRequest) (*StaffResponse, error) {
	if !IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	staff := &Staff{
		ID:           uuid.New(),
		Email:        normalizeEmail(req.Email),
		Name:         req.Name,
		PasswordHash: hash,
		Role:         Role(req.Role),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, staff); err != nil {
		return nil, err
	}

	log.Info().Str("staff_id", staff.ID.String()).Str("role", req.Role).Msg("staff account created")
	resp := toStaffResponse(staff)
	return &resp, nil
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*StaffResponse, error) {
	staff, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]StaffResponse, error) {
	staff, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StaffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, toStaffResponse(&staff[i]))
	}
	return out, nil
}

// SeedAdmin creates the bootstrap admin account if it does not exist yet.
// Called on startup in development so a fresh database is usable immediately.
func (s *Service) SeedAdmin(ctx context.Context, email, plainPassword string) error {
	if email == "" || plainPassword == "" {
		return nil
	}

	if _, err := s.store.GetByEmail(ctx, normalizeEmail(email)); err == nil {
		return nil
	} else if !errors.Is(err, ErrStaffNotFound) {
		return err
	}

	_, err := s.CreateStaff(ctx, &CreateStaffRequest{
		Email:    email,
		Name:     "Administrator",
		Password: plainPassword,
		Role:     string(RoleAdmin),
	})
	if errors.Is(err, ErrEmailAlreadyExists) {
		return nil
	}
	return err
}

func (s *Service) issueTokens(staff *Staff) (*LoginResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(staff.ID, string(staff.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(staff.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Staff: toStaffResponse(staff),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwt.GetAccessTTL().Seconds()),
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
