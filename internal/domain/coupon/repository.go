package coupon

import (
	"context"
	"database/sql"
	"errors"

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

func (r *Repository) Create(ctx context.Context, c *Coupon) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO coupons (
			id, code, discount_type, discount_value, max_discount_amount,
			minimum_order_amount, usage_limit, usage_count, available_for,
			customer_ids, start_date, end_date, is_active, notify_by_email,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, c.ID, c.Code, c.DiscountType, c.DiscountValue, c.MaxDiscountAmount,
		c.MinimumOrderAmount, c.UsageLimit, c.UsageCount, c.AvailableFor,
		c.CustomerIDs, c.StartDate, c.EndDate, c.IsActive, c.NotifyByEmail,
		c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, c *Coupon) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons SET
			discount_type = $2, discount_value = $3, max_discount_amount = $4,
			minimum_order_amount = $5, usage_limit = $6, available_for = $7,
			customer_ids = $8, start_date = $9, end_date = $10, is_active = $11,
			notify_by_email = $12, updated_at = now()
		WHERE id = $1
	`, c.ID, c.DiscountType, c.DiscountValue, c.MaxDiscountAmount,
		c.MinimumOrderAmount, c.UsageLimit, c.AvailableFor,
		c.CustomerIDs, c.StartDate, c.EndDate, c.IsActive, c.NotifyByEmail)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Coupon, error) {
	var c Coupon
	err := r.db.GetContext(ctx, &c, `SELECT * FROM coupons WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveByCode fetches a coupon eligible for validation. Inactive coupons
// are indistinguishable from missing ones on purpose: both produce the same
// "Invalid coupon code" rejection.
func (r *Repository) GetActiveByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.db.GetContext(ctx, &c, `SELECT * FROM coupons WHERE code = $1 AND is_active = true`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List(ctx context.Context, includeInactive bool, limit, offset int) ([]Coupon, int, error) {
	where := `WHERE is_active = true`
	if includeInactive {
		where = ``
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM coupons `+where); err != nil {
		return nil, 0, err
	}

	coupons := []Coupon{}
	err := r.db.SelectContext(ctx, &coupons, `
		SELECT * FROM coupons `+where+`
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// Deactivate soft-deletes a coupon
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons SET is_active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUsage records one redemption. The usage cap is enforced by the
// guarded UPDATE so that concurrent redemptions cannot exceed the limit.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
	`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish a missing coupon from an exhausted one
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM coupons WHERE id = $1)`, id); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrUsageLimitReached
	}
	return nil
}
