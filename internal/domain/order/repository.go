package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO orders (
			id, customer_id, customer_email, subtotal, discount_amount,
			total_amount, coupon_id, coupon_code, status, created_at
		) VALUES (
			:id, :customer_id, :customer_email, :subtotal, :discount_amount,
			:total_amount, :coupon_id, :coupon_code, :status, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// MarkCompleted flips a pending order to completed. The guarded UPDATE is the
// idempotency barrier: only one caller ever observes the transition, so the
// engines downstream fire exactly once per order.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `
		UPDATE orders
		SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING *`, id, now)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("complete order: %w", err)
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch existing.Status {
	case StatusCompleted:
		return nil, ErrAlreadyCompleted
	case StatusCancelled:
		return nil, ErrCancelled
	}
	return nil, fmt.Errorf("complete order: unexpected status %s", existing.Status)
}

func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `
		UPDATE orders
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'pending'
		RETURNING *`, id)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	return existing, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders`); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}
