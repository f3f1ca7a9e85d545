// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/repository"
	"billionaireable/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// EntitlementStatus is what the presentation layer gates access on.
type EntitlementStatus struct {
	HasSubscription bool
	Plan            model.Tier
	Status          model.SubscriptionStatus
	ExpiresAt       time.Time
}

type SubscriptionUseCase interface {
	// Activate upserts the user's single subscription row with a fresh full
	// period. Idempotent per user; a second call wins wholesale.
	Activate(ctx context.Context, userID string, tier model.Tier, method model.PaymentMethod, amount float64, cycle model.BillingCycle, source string) (string, error)
	// HasActive evaluates the lazy-expiry entitlement predicate without
	// mutating anything.
	HasActive(ctx context.Context, userID string) (*EntitlementStatus, error)
}

type subscriptionUC struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{subs: subs, log: &l}
}

func (u *subscriptionUC) Activate(ctx context.Context, userID string, tier model.Tier, method model.PaymentMethod, amount float64, cycle model.BillingCycle, source string) (string, error) {
	now := time.Now()

	existing, err := u.subs.FindByUser(ctx, repository.NoTX, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	if existing != nil {
		// Reset, not accrual: any remaining time on the prior period is
		// discarded in favor of a fresh full period starting now.
		existing.Plan = tier
		existing.Status = model.SubscriptionStatusActive
		existing.PaymentMethod = method
		existing.Amount = amount
		existing.BillingCycle = cycle
		existing.CurrentPeriodStart = now
		existing.CurrentPeriodEnd = model.PeriodEnd(now, cycle)
		existing.UpdatedAt = now
		if err := u.subs.Upsert(ctx, repository.NoTX, existing); err != nil {
			return "", err
		}
		metrics.IncActivation("renewal")
		u.log.Info().
			Str("subscription_id", existing.ID).
			Str("user_id", userID).
			Str("plan", string(tier)).
			Time("period_end", existing.CurrentPeriodEnd).
			Msg("subscription reset to new period")
		return existing.ID, nil
	}

	externalID := model.SyntheticExternalID(source, now)
	sub, err := model.NewSubscription(uuid.NewString(), userID, tier, method, amount, cycle, externalID)
	if err != nil {
		return "", err
	}
	if err := u.subs.Upsert(ctx, repository.NoTX, sub); err != nil {
		return "", err
	}
	metrics.IncActivation("new")
	u.log.Info().
		Str("subscription_id", sub.ID).
		Str("user_id", userID).
		Str("plan", string(tier)).
		Time("period_end", sub.CurrentPeriodEnd).
		Msg("subscription activated")
	return sub.ID, nil
}

func (u *subscriptionUC) HasActive(ctx context.Context, userID string) (*EntitlementStatus, error) {
	sub, err := u.subs.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &EntitlementStatus{}, nil
		}
		return nil, err
	}
	return &EntitlementStatus{
		HasSubscription: sub.ActiveAt(time.Now()),
		Plan:            sub.Plan,
		Status:          sub.Status,
		ExpiresAt:       sub.CurrentPeriodEnd,
	}, nil
}
