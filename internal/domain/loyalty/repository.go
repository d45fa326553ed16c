package loyalty

import (
	"context"
	"database/sql"
	"errors"
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

// ---------- Config ----------

func (r *Repository) GetConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	err := r.db.GetContext(ctx, &cfg, `
		SELECT points_per_amount, point_value, is_active, updated_at
		FROM loyalty_config WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotInitialized
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *Repository) SaveConfig(ctx context.Context, cfg *Config) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loyalty_config (id, points_per_amount, point_value, is_active, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			points_per_amount = EXCLUDED.points_per_amount,
			point_value = EXCLUDED.point_value,
			is_active = EXCLUDED.is_active,
			updated_at = now()
	`, cfg.PointsPerAmount, cfg.PointValue, cfg.IsActive)
	return err
}

// ---------- Rewards ----------

// rewardColumns selects a reward together with its ledger-derived usage count
const rewardColumns = `
	r.id, r.name, r.description, r.type, r.points_required, r.reward_value,
	r.max_discount_amount, r.applicable_items, r.is_active, r.usage_limit,
	r.valid_until, r.expiration_days, r.created_at, r.updated_at,
	(SELECT COUNT(*) FROM loyalty_transactions t WHERE t.reward_id = r.id) AS usage_count
`

func (r *Repository) CreateReward(ctx context.Context, reward *Reward) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loyalty_rewards (
			id, name, description, type, points_required, reward_value,
			max_discount_amount, applicable_items, is_active, usage_limit,
			valid_until, expiration_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, reward.ID, reward.Name, reward.Description, reward.Type, reward.PointsRequired,
		reward.RewardValue, reward.MaxDiscountAmount, reward.ApplicableItems,
		reward.IsActive, reward.UsageLimit, reward.ValidUntil, reward.ExpirationDays,
		reward.CreatedAt, reward.UpdatedAt)
	return err
}

func (r *Repository) UpdateReward(ctx context.Context, reward *Reward) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE loyalty_rewards SET
			name = $2, description = $3, type = $4, points_required = $5,
			reward_value = $6, max_discount_amount = $7, applicable_items = $8,
			is_active = $9, usage_limit = $10, valid_until = $11,
			expiration_days = $12, updated_at = now()
		WHERE id = $1
	`, reward.ID, reward.Name, reward.Description, reward.Type, reward.PointsRequired,
		reward.RewardValue, reward.MaxDiscountAmount, reward.ApplicableItems,
		reward.IsActive, reward.UsageLimit, reward.ValidUntil, reward.ExpirationDays)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRewardNotFound
	}
	return nil
}

func (r *Repository) GetReward(ctx context.Context, id uuid.UUID) (*RewardWithUsage, error) {
	var reward RewardWithUsage
	err := r.db.GetContext(ctx, &reward,
		`SELECT `+rewardColumns+` FROM loyalty_rewards r WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRewardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *Repository) ListRewards(ctx context.Context, includeInactive bool) ([]RewardWithUsage, error) {
	query := `SELECT ` + rewardColumns + ` FROM loyalty_rewards r`
	if !includeInactive {
		query += ` WHERE r.is_active = true`
	}
	query += ` ORDER BY r.points_required ASC`

	rewards := []RewardWithUsage{}
	if err := r.db.SelectContext(ctx, &rewards, query); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *Repository) DeactivateReward(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE loyalty_rewards SET is_active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRewardNotFound
	}
	return nil
}

// ---------- Customers & ledger ----------

func (r *Repository) GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerLoyalty, error) {
	var c CustomerLoyalty
	err := r.db.GetContext(ctx, &c, `SELECT * FROM customer_loyalty WHERE customer_id = $1`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListTransactions(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Transaction, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM loyalty_transactions WHERE customer_id = $1`, customerID)
	if err != nil {
		return nil, 0, err
	}

	txs := []Transaction{}
	err = r.db.SelectContext(ctx, &txs, `
		SELECT * FROM loyalty_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ListCustomerEmails returns customers reachable by email. An empty id list
// means every known customer (used for program-wide coupon announcements).
func (r *Repository) ListCustomerEmails(ctx context.Context, customerIDs []string) ([]CustomerLoyalty, error) {
	customers := []CustomerLoyalty{}
	if len(customerIDs) == 0 {
		err := r.db.SelectContext(ctx, &customers,
			`SELECT * FROM customer_loyalty WHERE customer_email <> ''`)
		return customers, err
	}

	query, args, err := sqlx.In(
		`SELECT * FROM customer_loyalty WHERE customer_email <> '' AND customer_id IN (?)`, customerIDs)
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &customers, r.db.Rebind(query), args...)
	return customers, err
}

func (r *Repository) lockCustomer(ctx context.Context, tx *sqlx.Tx, customerID uuid.UUID, email string, create bool) (*CustomerLoyalty, error) {
	if create {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customer_loyalty (customer_id, customer_email, total_points, points_earned, points_redeemed)
			VALUES ($1, $2, 0, 0, 0)
			ON CONFLICT (customer_id) DO NOTHING
		`, customerID, email); err != nil {
			return nil, err
		}
	}

	var c CustomerLoyalty
	err := tx.GetContext(ctx, &c,
		`SELECT * FROM customer_loyalty WHERE customer_id = $1 FOR UPDATE`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Earn credits points for a paid order. The customer record is created
// lazily on the first earn event.
func (r *Repository) Earn(ctx context.Context, customerID uuid.UUID, email string, orderID uuid.UUID, points int) (*CustomerLoyalty, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c, err := r.lockCustomer(ctx, tx, customerID, email, true)
	if err != nil {
		return nil, err
	}

	c.TotalPoints += points
	c.PointsEarned += points
	c.LastUpdated = time.Now()

	if _, err := tx.ExecContext(ctx, `
		UPDATE customer_loyalty
		SET total_points = $2, points_earned = $3, last_updated = now()
		WHERE customer_id = $1
	`, customerID, c.TotalPoints, c.PointsEarned); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO loyalty_transactions (id, customer_id, type, points, order_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), customerID, TransactionEarned, points, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

// Redeem atomically checks eligibility and debits the balance. The
// precondition and the mutation run inside one transaction with the customer
// row locked, so concurrent redemptions against the same balance serialize.
func (r *Repository) Redeem(ctx context.Context, customerID, rewardID uuid.UUID, now time.Time) (*Reward, *CustomerLoyalty, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	c, err := r.lockCustomer(ctx, tx, customerID, "", false)
	if err != nil {
		return nil, nil, err
	}

	var reward Reward
	err = tx.GetContext(ctx, &reward, `SELECT * FROM loyalty_rewards WHERE id = $1`, rewardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrRewardNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var usage int
	if err := tx.GetContext(ctx, &usage,
		`SELECT COUNT(*) FROM loyalty_transactions WHERE reward_id = $1`, rewardID); err != nil {
		return nil, nil, err
	}

	if c.TotalPoints < reward.PointsRequired {
		return nil, nil, ErrInsufficientPoints
	}
	if !CanRedeem(c.TotalPoints, &reward, usage, now) {
		return nil, nil, ErrRewardNotRedeemable
	}

	c.TotalPoints -= reward.PointsRequired
	c.PointsRedeemed += reward.PointsRequired
	c.LastUpdated = now

	if _, err := tx.ExecContext(ctx, `
		UPDATE customer_loyalty
		SET total_points = $2, points_redeemed = $3, last_updated = now()
		WHERE customer_id = $1
	`, customerID, c.TotalPoints, c.PointsRedeemed); err != nil {
		return nil, nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO loyalty_transactions (id, customer_id, type, points, reward_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), customerID, TransactionRedeemed, reward.PointsRequired, rewardID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &reward, c, nil
}

// Snapshot loads an immutable view of the program for analytics. A missing
// config is not an error here; the report simply values points at zero.
func (r *Repository) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Customers:    []CustomerLoyalty{},
		Rewards:      []RewardWithUsage{},
		Transactions: []Transaction{},
	}

	cfg, err := r.GetConfig(ctx)
	if err != nil && !errors.Is(err, ErrConfigNotInitialized) {
		return nil, err
	}
	snap.Config = cfg

	if err := r.db.SelectContext(ctx, &snap.Customers, `SELECT * FROM customer_loyalty`); err != nil {
		return nil, err
	}

	rewards, err := r.ListRewards(ctx, true)
	if err != nil {
		return nil, err
	}
	snap.Rewards = rewards

	if err := r.db.SelectContext(ctx, &snap.Transactions, `SELECT * FROM loyalty_transactions`); err != nil {
		return nil, err
	}
	return snap, nil
}
