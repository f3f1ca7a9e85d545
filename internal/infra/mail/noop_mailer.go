package mail

import (
	"context"

	"billionaireable/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.Mailer = (*NoopMailer)(nil)

// NoopMailer logs instead of sending. Used in dev mode and when SMTP is not
// configured.
type NoopMailer struct {
	log *zerolog.Logger
}

func NewNoopMailer(logger *zerolog.Logger) *NoopMailer {
	l := logger.With().Str("component", "NoopMailer").Logger()
	return &NoopMailer{log: &l}
}

func (m *NoopMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.log.Info().Str("to", to).Str("subject", subject).Msg("email suppressed (noop mailer)")
	return nil
}
