package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/usecase"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ===== wire verification webhook =====

type wireVerificationRequest struct {
	Reference     string  `json:"reference"`
	Amount        float64 `json:"amount"`
	BankReference string  `json:"bankReference"`
	APIKey        string  `json:"apiKey"`
}

type wireVerificationResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Tier    model.Tier `json:"tier,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

func (s *Server) handleWireVerification(w http.ResponseWriter, r *http.Request) {
	var req wireVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, wireVerificationResponse{Success: false, Reason: "invalid_body"})
		return
	}

	if s.wireSecret != "" && req.APIKey != s.wireSecret {
		writeJSON(w, http.StatusUnauthorized, wireVerificationResponse{Success: false, Reason: "unauthorized"})
		return
	}
	if req.Reference == "" || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, wireVerificationResponse{Success: false, Reason: "missing_fields"})
		return
	}

	var bankRef *string
	if req.BankReference != "" {
		bankRef = &req.BankReference
	}

	res, err := s.appUC.ConfirmWire(r.Context(), req.Reference, req.Amount, bankRef)
	if err != nil {
		s.log.Error().Err(err).Str("reference", req.Reference).Msg("wire confirmation failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusBadRequest, wireVerificationResponse{Success: false, Reason: res.Reason})
		return
	}
	writeJSON(w, http.StatusOK, wireVerificationResponse{
		Success: true,
		Message: "payment verified, access granted",
		Tier:    res.Tier,
	})
}

// ===== member surface =====

type applicationCreateRequest struct {
	UserID        string  `json:"user_id"`
	Tier          string  `json:"tier"`
	BillingCycle  string  `json:"billing_cycle"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.appUC.Create(r.Context(),
		req.UserID,
		model.Tier(req.Tier),
		model.BillingCycle(req.BillingCycle),
		req.Amount,
		model.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownTier):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to create application", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Application      *model.PaymentApplication `json:"application"`
		WireInstructions *model.WireInstructions   `json:"wire_instructions,omitempty"`
	}{res.Application, res.WireInstructions})
}

func (s *Server) handleUserApplications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	apps, err := s.appUC.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to list applications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.PaymentApplication `json:"data"`
	}{apps})
}

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	ent, err := s.subUC.HasActive(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to check entitlement", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		HasSubscription bool                     `json:"has_subscription"`
		Plan            model.Tier               `json:"plan,omitempty"`
		Status          model.SubscriptionStatus `json:"status,omitempty"`
		ExpiresAt       *time.Time               `json:"expires_at,omitempty"`
	}{
		HasSubscription: ent.HasSubscription,
		Plan:            ent.Plan,
		Status:          ent.Status,
		ExpiresAt:       nilIfZero(ent.ExpiresAt),
	})
}

func nilIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

type chatRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reply, err := s.chatUC.Ask(r.Context(), req.UserID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "Question is required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrNoActiveAccess):
			http.Error(w, "Active subscription required", http.StatusPaymentRequired)
		default:
			http.Error(w, "Concierge unavailable", http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Reply string `json:"reply"`
	}{reply})
}

// ===== admin surface =====

type adminLoginRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.adminAPIKey == "" {
		s.log.Error().Msg("admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if req.APIKey != s.adminAPIKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{token})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, _ *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	var (
		apps []*model.PaymentApplication
		err  error
	)
	switch r.URL.Query().Get("filter") {
	case "pending":
		apps, err = s.appUC.ListPending(r.Context())
	case "":
		apps, err = s.appUC.ListAll(r.Context())
	default:
		http.Error(w, "Unknown filter", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to list applications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.PaymentApplication `json:"data"`
	}{apps})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app, instructions, err := s.appUC.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Application not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load application", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Application      *model.PaymentApplication `json:"application"`
		WireInstructions *model.WireInstructions   `json:"wire_instructions,omitempty"`
	}{app, instructions})
}

type statusUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status := model.ApplicationStatus(req.Status)
	switch status {
	case model.ApplicationStatusPending,
		model.ApplicationStatusAwaitingPayment,
		model.ApplicationStatusApproved,
		model.ApplicationStatusInsufficient,
		model.ApplicationStatusRejected:
	default:
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	if err := s.appUC.UpdateStatus(r.Context(), id, status, req.Notes); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Application not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update status", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSweepStalled(w http.ResponseWriter, r *http.Request) {
	s.sweepHandler(w, r, s.sweepUC.SweepStalledUsers)
}

func (s *Server) handleSweepAbandoned(w http.ResponseWriter, r *http.Request) {
	s.sweepHandler(w, r, s.sweepUC.SweepAbandonedApplications)
}

func (s *Server) sweepHandler(w http.ResponseWriter, r *http.Request, run func(ctx context.Context) (*usecase.SweepReport, error)) {
	report, err := run(r.Context())
	if err != nil {
		http.Error(w, "Sweep failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Checked int `json:"checked"`
		Emailed int `json:"emailed"`
	}{report.Checked, report.Emailed})
}
