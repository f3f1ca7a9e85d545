package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*notificationLogRepo)(nil)

type notificationLogRepo struct{ pool *pgxpool.Pool }

func NewNotificationLogRepo(pool *pgxpool.Pool) repository.NotificationLogRepository {
	return &notificationLogRepo{pool: pool}
}

func (r *notificationLogRepo) Save(ctx context.Context, tx repository.Tx, userID, applicationID, kind string) error {
	const q = `
INSERT INTO notification_log (id, user_id, application_id, kind, sent_at)
VALUES ($1, $2, NULLIF($3, ''), $4, NOW());`
	_, err := execSQL(ctx, r.pool, tx, q, uuid.NewString(), userID, applicationID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *notificationLogRepo) CountByKindSince(ctx context.Context, tx repository.Tx, kind string, sinceDays int) (int, error) {
	const q = `
SELECT COUNT(*) FROM notification_log
 WHERE kind=$1 AND sent_at >= NOW() - ($2 * INTERVAL '1 day');`
	row, err := pickRow(ctx, r.pool, tx, q, kind, sinceDays)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
