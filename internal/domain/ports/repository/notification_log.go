package repository

import "context"

// -----------------------------
// Notifications log
// -----------------------------

// NotificationLogRepository records every automated email for audit. The
// stall sweep deliberately does not consult it for suppression; see the
// sweep use case.
type NotificationLogRepository interface {
	// Save records that a notification of the given kind was sent to a user,
	// optionally tied to a payment application.
	Save(ctx context.Context, tx Tx, userID, applicationID, kind string) error
	// CountByKindSince reports how many notifications of a kind went out
	// after the cutoff (admin dashboard statistic).
	CountByKindSince(ctx context.Context, tx Tx, kind string, sinceDays int) (int, error)
}
