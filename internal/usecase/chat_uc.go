// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/ports/adapter"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// ChatUseCase fronts the dashboard concierge widget. Access is gated on an
// active subscription; the model itself is an opaque external capability.
type ChatUseCase interface {
	Ask(ctx context.Context, userID, question string) (string, error)
}

type chatUC struct {
	subUC        SubscriptionUseCase
	ai           adapter.ConciergeAdapter
	systemPrompt string
	log          *zerolog.Logger
}

func NewChatUseCase(subUC SubscriptionUseCase, ai adapter.ConciergeAdapter, systemPrompt string, logger *zerolog.Logger) *chatUC {
	l := logger.With().Str("component", "ChatUC").Logger()
	return &chatUC{subUC: subUC, ai: ai, systemPrompt: systemPrompt, log: &l}
}

func (u *chatUC) Ask(ctx context.Context, userID, question string) (string, error) {
	if question == "" {
		return "", domain.ErrInvalidArgument
	}
	ent, err := u.subUC.HasActive(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ent.HasSubscription {
		return "", domain.ErrNoActiveAccess
	}

	msgs := []adapter.Message{}
	if u.systemPrompt != "" {
		msgs = append(msgs, adapter.Message{Role: "system", Content: u.systemPrompt})
	}
	msgs = append(msgs, adapter.Message{Role: "user", Content: question})

	reply, err := u.ai.Chat(ctx, msgs)
	if err != nil {
		u.log.Error().Err(err).Str("user_id", userID).Msg("concierge call failed")
		return "", err
	}
	return reply, nil
}
