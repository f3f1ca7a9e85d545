package model

import (
	"fmt"
	"time"

	"billionaireable/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
)

// Subscription is the single entitlement row per user. Activation upserts by
// user id: a renewal resets the period wholesale instead of appending rows or
// accruing leftover time.
type Subscription struct {
	ID                   string // UUID
	UserID               string // UUID of user, unique across rows
	Plan                 Tier
	Status               SubscriptionStatus
	PaymentMethod        PaymentMethod
	Amount               float64
	BillingCycle         BillingCycle
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	StripeSubscriptionID string // provider id, or synthesized for non-Stripe sources
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PeriodEnd computes a fresh full period from start: 365 days for annual,
// 30 days otherwise. Renewals are resets, never additive.
func PeriodEnd(start time.Time, cycle BillingCycle) time.Time {
	if cycle == BillingCycleAnnual {
		return start.Add(365 * 24 * time.Hour)
	}
	return start.Add(30 * 24 * time.Hour)
}

// SyntheticExternalID stands in for a Stripe subscription id when the payment
// came in over a rail that has none (wire, manual, whop).
func SyntheticExternalID(source string, now time.Time) string {
	return fmt.Sprintf("%s_%d", source, now.Unix())
}

// NewSubscription creates an active subscription starting now.
func NewSubscription(id, userID string, plan Tier, method PaymentMethod, amount float64, cycle BillingCycle, externalID string) (*Subscription, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:                   id,
		UserID:               userID,
		Plan:                 plan,
		Status:               SubscriptionStatusActive,
		PaymentMethod:        method,
		Amount:               amount,
		BillingCycle:         cycle,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     PeriodEnd(now, cycle),
		StripeSubscriptionID: externalID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// ActiveAt is the read-time entitlement predicate. Expiry is derived, never
// stored: an expired row reads as inactive without any status flip.
func (s *Subscription) ActiveAt(now time.Time) bool {
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrialing {
		return false
	}
	return s.CurrentPeriodEnd.After(now)
}
