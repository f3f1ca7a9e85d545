package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

const userColumns = `id, email, name, is_admin, last_login_at, last_progress_at, created_at`

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return u, nil
}

func (r *userRepo) ListStalled(ctx context.Context, tx repository.Tx, loginBefore, progressBefore time.Time) ([]*model.User, error) {
	const q = `
SELECT ` + userColumns + `
  FROM users
 WHERE is_admin = FALSE
   AND (last_login_at IS NULL OR last_login_at < $1
        OR last_progress_at IS NULL OR last_progress_at < $2)
 ORDER BY last_login_at ASC NULLS FIRST;`
	rows, err := queryRows(ctx, r.pool, tx, q, loginBefore, progressBefore)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, u)
	}
	return out, nil
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.LastLoginAt, &u.LastProgressAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
