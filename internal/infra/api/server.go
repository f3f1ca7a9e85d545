package api

import (
	"net/http"
	"time"

	"billionaireable/internal/infra/billing"
	"billionaireable/internal/infra/redis"
	"billionaireable/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	webhookRateLimit  = 30
	webhookRateWindow = time.Minute
)

// Server wires the payment webhook, the member endpoints and the
// JWT-gated admin API onto one router.
type Server struct {
	appUC   usecase.ApplicationUseCase
	subUC   usecase.SubscriptionUseCase
	sweepUC usecase.SweepUseCase
	chatUC  usecase.ChatUseCase

	stripe  *billing.StripeWebhook
	auth    *AuthManager
	limiter *redis.RateLimiter

	adminAPIKey string
	wireSecret  string
	log         *zerolog.Logger
}

func NewServer(
	appUC usecase.ApplicationUseCase,
	subUC usecase.SubscriptionUseCase,
	sweepUC usecase.SweepUseCase,
	chatUC usecase.ChatUseCase,
	stripe *billing.StripeWebhook,
	auth *AuthManager,
	limiter *redis.RateLimiter,
	adminAPIKey string,
	wireSecret string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "APIServer").Logger()
	return &Server{
		appUC:       appUC,
		subUC:       subUC,
		sweepUC:     sweepUC,
		chatUC:      chatUC,
		stripe:      stripe,
		auth:        auth,
		limiter:     limiter,
		adminAPIKey: adminAPIKey,
		wireSecret:  wireSecret,
		log:         &l,
	}
}

// Routes builds the full router. Mounted at root.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Bank-side wire confirmation callback.
	r.With(s.rateLimit).Post("/wire-verification", s.handleWireVerification)

	if s.stripe != nil {
		r.Post("/stripe/webhook", s.stripe.Handle)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Member surface: caller identity comes from the app frontend,
		// which sits behind its own session auth.
		r.Post("/applications", s.handleCreateApplication)
		r.Get("/users/{id}/applications", s.handleUserApplications)
		r.Get("/users/{id}/entitlement", s.handleEntitlement)
		r.Post("/chat", s.handleChat)

		r.Post("/admin/login", s.handleAdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/admin/logout", s.handleAdminLogout)
			r.Get("/admin/applications", s.handleListApplications)
			r.Get("/admin/applications/{id}", s.handleGetApplication)
			r.Put("/admin/applications/{id}/status", s.handleUpdateStatus)
			r.Get("/admin/users/{id}/applications", s.handleUserApplications)
			r.Get("/admin/users/{id}/subscription", s.handleEntitlement)
			r.Post("/admin/sweeps/stalled", s.handleSweepStalled)
			r.Post("/admin/sweeps/abandoned", s.handleSweepAbandoned)
		})
	})

	return r
}

// rateLimit throttles unauthenticated webhook callers per remote address.
// Limiter errors fail open: a Redis outage must not block bank callbacks.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			ok, err := s.limiter.Allow(r.Context(), redis.WebhookKey(r.RemoteAddr), webhookRateLimit, webhookRateWindow)
			if err != nil {
				s.log.Warn().Err(err).Msg("rate limiter unavailable")
			} else if !ok {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
