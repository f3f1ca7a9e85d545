package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/repository"
	"billionaireable/internal/infra/metrics"
	red "billionaireable/internal/infra/redis"
)

var _ repository.SubscriptionRepository = (*subscriptionRepoCacheDecorator)(nil)

// subscriptionRepoCacheDecorator caches the per-user subscription row. The
// entitlement check runs on every gated page load, so this is the hot read
// path; writes invalidate before hitting the store.
type subscriptionRepoCacheDecorator struct {
	inner repository.SubscriptionRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewSubscriptionRepoCacheDecorator(inner repository.SubscriptionRepository, cache red.RedisClient, ttl time.Duration) repository.SubscriptionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &subscriptionRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func subKey(userID string) string { return fmt.Sprintf("subscription:user:%s", userID) }

func (d *subscriptionRepoCacheDecorator) Upsert(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	_ = d.cache.Del(ctx, subKey(s.UserID))
	return d.inner.Upsert(ctx, tx, s)
}

func (d *subscriptionRepoCacheDecorator) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	key := subKey(userID)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var sub model.Subscription
		if json.Unmarshal([]byte(val), &sub) == nil {
			metrics.IncCacheRequest("subscription", "hit")
			return &sub, nil
		}
	}

	metrics.IncCacheRequest("subscription", "miss")
	sub, err := d.inner.FindByUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(sub); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return sub, nil
}

// ListAll bypasses the cache; it serves the admin table, not the hot path.
func (d *subscriptionRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	return d.inner.ListAll(ctx, tx)
}
