package adapter

import "context"

// Mailer is the notification gateway: a thin external collaborator that
// delivers one rendered message. Implementations must treat each call as
// independent; batching and retries belong to the caller.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
