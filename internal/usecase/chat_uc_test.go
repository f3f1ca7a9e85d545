//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/adapter"
	"billionaireable/internal/domain/ports/repository"
	"billionaireable/internal/usecase"
)

func TestChatUseCase_Ask(t *testing.T) {
	ctx := context.Background()

	entitle := func(t *testing.T, subs *MockSubscriptionRepo) {
		t.Helper()
		sub := &model.Subscription{
			ID:               "sub-1",
			UserID:           "user-1",
			Plan:             model.TierFounder,
			Status:           model.SubscriptionStatusActive,
			CurrentPeriodEnd: time.Now().Add(10 * 24 * time.Hour),
		}
		if err := subs.Upsert(ctx, repository.NoTX, sub); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	t.Run("prepends the system prompt and returns the reply", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		entitle(t, subs)
		ai := &MockConcierge{ChatFunc: func(ctx context.Context, messages []adapter.Message) (string, error) {
			return "build leverage", nil
		}}
		subUC := usecase.NewSubscriptionUseCase(subs, newTestLogger())
		uc := usecase.NewChatUseCase(subUC, ai, "You are the concierge.", newTestLogger())

		reply, err := uc.Ask(ctx, "user-1", "What should I do first?")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if reply != "build leverage" {
			t.Errorf("unexpected reply %q", reply)
		}
		if len(ai.Calls) != 1 || len(ai.Calls[0]) != 2 {
			t.Fatalf("expected system + user messages, got %+v", ai.Calls)
		}
		if ai.Calls[0][0].Role != "system" || ai.Calls[0][1].Role != "user" {
			t.Errorf("unexpected roles: %+v", ai.Calls[0])
		}
	})

	t.Run("empty question is rejected before any model call", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		entitle(t, subs)
		ai := &MockConcierge{}
		subUC := usecase.NewSubscriptionUseCase(subs, newTestLogger())
		uc := usecase.NewChatUseCase(subUC, ai, "", newTestLogger())

		if _, err := uc.Ask(ctx, "user-1", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got: %v", err)
		}
		if len(ai.Calls) != 0 {
			t.Error("expected no model call for an empty question")
		}
	})

	t.Run("no active subscription blocks the concierge", func(t *testing.T) {
		ai := &MockConcierge{}
		subUC := usecase.NewSubscriptionUseCase(NewMockSubscriptionRepo(), newTestLogger())
		uc := usecase.NewChatUseCase(subUC, ai, "", newTestLogger())

		if _, err := uc.Ask(ctx, "user-1", "hello"); !errors.Is(err, domain.ErrNoActiveAccess) {
			t.Fatalf("expected ErrNoActiveAccess, got: %v", err)
		}
		if len(ai.Calls) != 0 {
			t.Error("expected the gate to stop the model call")
		}
	})
}
