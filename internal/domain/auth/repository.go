package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, s *Staff) error {
	query := `
		INSERT INTO staff (id, email, name, password_hash, role, is_active, created_at, updated_at)
		VALUES (:id, :email, :name, :password_hash, :role, :is_active, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, s)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrEmailAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	var s Staff
	err := r.db.GetContext(ctx, &s, `SELECT * FROM staff WHERE email = $1`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff by email: %w", err)
	}
	return &s, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	var s Staff
	err := r.db.GetContext(ctx, &s, `SELECT * FROM staff WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &s, nil
}

func (r *Repository) List(ctx context.Context) ([]Staff, error) {
	staff := []Staff{}
	err := r.db.SelectContext(ctx, &staff, `SELECT * FROM staff ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}
