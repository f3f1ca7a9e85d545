package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

const subscriptionColumns = `id, user_id, plan, status, payment_method, amount, billing_cycle, current_period_start, current_period_end, stripe_subscription_id, created_at, updated_at`

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

// Upsert relies on the unique index on user_id: a concurrent activation for
// the same user resolves to a single row with last-write-wins fields.
func (r *subscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, user_id, plan, status, payment_method, amount, billing_cycle, current_period_start, current_period_end, stripe_subscription_id, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (user_id) DO UPDATE SET
  plan=$3, status=$4, payment_method=$5, amount=$6, billing_cycle=$7,
  current_period_start=$8, current_period_end=$9, updated_at=$12;`

	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.UserID, s.Plan, s.Status, s.PaymentMethod, s.Amount, s.BillingCycle,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.StripeSubscriptionID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	s, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *subscriptionRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	return out, nil
}

func scanSubscription(row rowScanner) (*model.Subscription, error) {
	s := &model.Subscription{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.Plan, &s.Status, &s.PaymentMethod, &s.Amount, &s.BillingCycle,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.StripeSubscriptionID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
