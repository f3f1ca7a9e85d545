package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/repository"
)

var _ repository.ApplicationRepository = (*applicationRepo)(nil)

const applicationColumns = `id, user_id, user_email, user_name, tier, billing_cycle, amount, payment_method, status, wire_reference, payment_reference, bank_reference, payment_source, amount_received, notes, created_at, updated_at, payment_verified_at`

type applicationRepo struct{ pool *pgxpool.Pool }

func NewApplicationRepo(pool *pgxpool.Pool) *applicationRepo {
	return &applicationRepo{pool: pool}
}

func (r *applicationRepo) Save(ctx context.Context, tx repository.Tx, a *model.PaymentApplication) error {
	const q = `
INSERT INTO payment_applications (
  id, user_id, user_email, user_name, tier, billing_cycle, amount, payment_method, status, wire_reference, payment_reference, bank_reference, payment_source, amount_received, notes, created_at, updated_at, payment_verified_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18
) ON CONFLICT (id) DO UPDATE SET
  status=$9, payment_reference=$11, bank_reference=$12, payment_source=$13, amount_received=$14, notes=$15, updated_at=$17, payment_verified_at=$18;`

	_, err := execSQL(ctx, r.pool, tx, q,
		a.ID, a.UserID, a.UserEmail, a.UserName, a.Tier, a.BillingCycle, a.Amount, a.PaymentMethod, a.Status,
		a.WireReference, a.PaymentReference, a.BankReference, a.PaymentSource, a.AmountReceived, a.Notes,
		a.CreatedAt, a.UpdatedAt, a.PaymentVerifiedAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			var pgErr *pgconn.PgError
			// 23505: the wire_reference unique index tripped; caller retries
			// with a fresh reference.
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *applicationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentApplication, error) {
	q := `SELECT ` + applicationColumns + ` FROM payment_applications WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.queryOne(ctx, tx, q, id)
}

func (r *applicationRepo) FindByWireReference(ctx context.Context, tx repository.Tx, ref string) (*model.PaymentApplication, error) {
	q := `SELECT ` + applicationColumns + ` FROM payment_applications WHERE wire_reference=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.queryOne(ctx, tx, q, ref)
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.ApplicationStatus, notes *string, verifiedAt *time.Time) error {
	const q = `
UPDATE payment_applications
   SET status=$2,
       notes=COALESCE($3, notes),
       payment_verified_at=COALESCE($4, payment_verified_at),
       updated_at=NOW()
 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status, notes, verifiedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *applicationRepo) MarkVerified(ctx context.Context, tx repository.Tx, id string, paymentRef, bankRef, source *string, amountReceived *float64, verifiedAt time.Time) error {
	const q = `
UPDATE payment_applications
   SET status='approved',
       payment_reference=COALESCE($2, payment_reference),
       bank_reference=COALESCE($3, bank_reference),
       payment_source=COALESCE($4, payment_source),
       amount_received=COALESCE($5, amount_received),
       payment_verified_at=$6,
       updated_at=NOW()
 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, paymentRef, bankRef, source, amountReceived, verifiedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *applicationRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PaymentApplication, error) {
	const q = `SELECT ` + applicationColumns + ` FROM payment_applications ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q)
}

func (r *applicationRepo) ListByStatus(ctx context.Context, tx repository.Tx, statuses ...model.ApplicationStatus) ([]*model.PaymentApplication, error) {
	const q = `SELECT ` + applicationColumns + ` FROM payment_applications WHERE status = ANY($1) ORDER BY created_at DESC;`
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	return r.queryMany(ctx, tx, q, ss)
}

func (r *applicationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.PaymentApplication, error) {
	const q = `SELECT ` + applicationColumns + ` FROM payment_applications WHERE user_id=$1 ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q, userID)
}

func (r *applicationRepo) ListAwaitingCreatedBetween(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.PaymentApplication, error) {
	// Exclusive bounds keep consecutive daily windows from overlapping.
	const q = `
SELECT ` + applicationColumns + `
  FROM payment_applications
 WHERE status='awaiting_payment' AND created_at > $1 AND created_at < $2
 ORDER BY created_at ASC;`
	return r.queryMany(ctx, tx, q, from, to)
}

func (r *applicationRepo) HasOpen(ctx context.Context, tx repository.Tx, userID string) (bool, error) {
	const q = `
SELECT EXISTS(
    SELECT 1 FROM payment_applications
    WHERE user_id=$1 AND status IN ('pending','awaiting_payment')
);`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *applicationRepo) queryOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.PaymentApplication, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

func (r *applicationRepo) queryMany(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.PaymentApplication, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.PaymentApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, a)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*model.PaymentApplication, error) {
	a := &model.PaymentApplication{}
	err := row.Scan(
		&a.ID, &a.UserID, &a.UserEmail, &a.UserName, &a.Tier, &a.BillingCycle, &a.Amount, &a.PaymentMethod, &a.Status,
		&a.WireReference, &a.PaymentReference, &a.BankReference, &a.PaymentSource, &a.AmountReceived, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt, &a.PaymentVerifiedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
