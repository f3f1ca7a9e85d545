package repository

import (
	"context"
	"time"

	"billionaireable/internal/domain/model"
)

// -----------------------------
// Payment applications
// -----------------------------

type ApplicationRepository interface {
	Save(ctx context.Context, tx Tx, a *model.PaymentApplication) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PaymentApplication, error)
	FindByWireReference(ctx context.Context, tx Tx, ref string) (*model.PaymentApplication, error)
	// UpdateStatus patches status plus the optional resolution fields; nil
	// arguments leave the stored values untouched.
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.ApplicationStatus, notes *string, verifiedAt *time.Time) error
	// MarkVerified records the approval outcome of a verification pass in one
	// mutation: status, references, source and (for wire) amount received.
	MarkVerified(ctx context.Context, tx Tx, id string, paymentRef, bankRef, source *string, amountReceived *float64, verifiedAt time.Time) error
	ListAll(ctx context.Context, tx Tx) ([]*model.PaymentApplication, error)
	ListByStatus(ctx context.Context, tx Tx, statuses ...model.ApplicationStatus) ([]*model.PaymentApplication, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.PaymentApplication, error)
	// ListAwaitingCreatedBetween returns wire applications still awaiting
	// payment whose creation time falls inside (from, to) exclusive.
	ListAwaitingCreatedBetween(ctx context.Context, tx Tx, from, to time.Time) ([]*model.PaymentApplication, error)
	HasOpen(ctx context.Context, tx Tx, userID string) (bool, error)
}
