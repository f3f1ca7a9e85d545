package repository

import (
	"context"

	"billionaireable/internal/domain/model"
)

// -----------------------------
// Subscriptions
// -----------------------------

type SubscriptionRepository interface {
	// Upsert inserts the subscription or, when a row for the same user
	// already exists, overwrites its plan/status/period fields in place.
	// Exactly one row per user survives either way.
	Upsert(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Subscription, error)
}
