package ai

import (
	"context"

	"billionaireable/internal/domain/ports/adapter"
)

var _ adapter.ConciergeAdapter = (*NoopAdapter)(nil)

// NoopAdapter answers with a canned reply; used in dev mode and tests.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (n *NoopAdapter) Chat(ctx context.Context, messages []adapter.Message) (string, error) {
	return "The concierge is offline right now. Please try again later.", nil
}
