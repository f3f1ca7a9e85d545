package repository

import (
	"context"
	"time"

	"billionaireable/internal/domain/model"
)

// -----------------------------
// Users (owned by the web app; read-only here)
// -----------------------------

type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// ListStalled returns non-admin users whose last login predates
	// loginBefore or whose last module progress predates progressBefore.
	ListStalled(ctx context.Context, tx Tx, loginBefore, progressBefore time.Time) ([]*model.User, error)
}
