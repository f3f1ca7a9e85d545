package billing

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v83"

	"billionaireable/internal/usecase"
)

const maxWebhookBody = 256 * 1024

// StripeWebhook turns checkout completions into payment verifications for
// applications created with method=stripe. The session metadata carries the
// application id the dashboard attached at checkout time.
type StripeWebhook struct {
	appUC  usecase.ApplicationUseCase
	secret string
	log    *zerolog.Logger
}

func NewStripeWebhook(appUC usecase.ApplicationUseCase, webhookSecret string, logger *zerolog.Logger) *StripeWebhook {
	l := logger.With().Str("component", "StripeWebhook").Logger()
	return &StripeWebhook{appUC: appUC, secret: webhookSecret, log: &l}
}

func (h *StripeWebhook) Handle(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		http.Error(w, "webhook not configured", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	event, err := stripe.ConstructEvent(body, r.Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if event.Type != "checkout.session.completed" {
		// Other event types are not relevant to application reconciliation.
		w.WriteHeader(http.StatusOK)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	applicationID := ""
	if session.Metadata != nil {
		applicationID = session.Metadata["application_id"]
	}
	if applicationID == "" {
		h.log.Warn().Str("session_id", session.ID).Msg("checkout session without application_id metadata")
		w.WriteHeader(http.StatusOK)
		return
	}

	var paymentRef *string
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		paymentRef = &session.PaymentIntent.ID
	}

	res, err := h.appUC.VerifyAndActivate(r.Context(), applicationID, paymentRef, "stripe")
	if err != nil {
		h.log.Error().Err(err).Str("application_id", applicationID).Msg("stripe verification failed")
		http.Error(w, "failed to process webhook", http.StatusInternalServerError)
		return
	}
	if !res.Success {
		h.log.Warn().Str("application_id", applicationID).Str("reason", res.Reason).Msg("stripe checkout below tolerance")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
