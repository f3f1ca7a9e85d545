//go:build !integration

package api_test

import (
	"context"

	"github.com/rs/zerolog"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock ApplicationUseCase ----

type MockApplicationUC struct {
	CreateFunc            func(ctx context.Context, userID string, tier model.Tier, cycle model.BillingCycle, amount float64, method model.PaymentMethod) (*usecase.CreateResult, error)
	VerifyAndActivateFunc func(ctx context.Context, applicationID string, paymentRef *string, source string) (*usecase.VerifyResult, error)
	ConfirmWireFunc       func(ctx context.Context, wireReference string, amountReceived float64, bankRef *string) (*usecase.VerifyResult, error)
	UpdateStatusFunc      func(ctx context.Context, applicationID string, status model.ApplicationStatus, notes *string) error
	ListAllFunc           func(ctx context.Context) ([]*model.PaymentApplication, error)
	ListPendingFunc       func(ctx context.Context) ([]*model.PaymentApplication, error)
	ListByUserFunc        func(ctx context.Context, userID string) ([]*model.PaymentApplication, error)
	GetFunc               func(ctx context.Context, applicationID string) (*model.PaymentApplication, *model.WireInstructions, error)
	HasOpenFunc           func(ctx context.Context, userID string) (bool, error)
}

var _ usecase.ApplicationUseCase = (*MockApplicationUC)(nil)

func (m *MockApplicationUC) Create(ctx context.Context, userID string, tier model.Tier, cycle model.BillingCycle, amount float64, method model.PaymentMethod) (*usecase.CreateResult, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, tier, cycle, amount, method)
	}
	app, err := model.NewPaymentApplication("app-1", userID, "payer@example.com", "Payer", tier, cycle, amount, method)
	if err != nil {
		return nil, err
	}
	return &usecase.CreateResult{Application: app}, nil
}

func (m *MockApplicationUC) VerifyAndActivate(ctx context.Context, applicationID string, paymentRef *string, source string) (*usecase.VerifyResult, error) {
	if m.VerifyAndActivateFunc != nil {
		return m.VerifyAndActivateFunc(ctx, applicationID, paymentRef, source)
	}
	return &usecase.VerifyResult{Success: true, ApplicationID: applicationID, AccessGranted: true}, nil
}

func (m *MockApplicationUC) ConfirmWire(ctx context.Context, wireReference string, amountReceived float64, bankRef *string) (*usecase.VerifyResult, error) {
	if m.ConfirmWireFunc != nil {
		return m.ConfirmWireFunc(ctx, wireReference, amountReceived, bankRef)
	}
	return &usecase.VerifyResult{Success: true, Tier: model.TierFounder, AccessGranted: true}, nil
}

func (m *MockApplicationUC) UpdateStatus(ctx context.Context, applicationID string, status model.ApplicationStatus, notes *string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, applicationID, status, notes)
	}
	return nil
}

func (m *MockApplicationUC) ListAll(ctx context.Context) ([]*model.PaymentApplication, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockApplicationUC) ListPending(ctx context.Context) ([]*model.PaymentApplication, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx)
	}
	return nil, nil
}

func (m *MockApplicationUC) ListByUser(ctx context.Context, userID string) ([]*model.PaymentApplication, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockApplicationUC) Get(ctx context.Context, applicationID string) (*model.PaymentApplication, *model.WireInstructions, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, applicationID)
	}
	return nil, nil, domain.ErrNotFound
}

func (m *MockApplicationUC) HasOpenApplication(ctx context.Context, userID string) (bool, error) {
	if m.HasOpenFunc != nil {
		return m.HasOpenFunc(ctx, userID)
	}
	return false, nil
}

// ---- Mock SubscriptionUseCase ----

type MockSubscriptionUC struct {
	ActivateFunc  func(ctx context.Context, userID string, tier model.Tier, method model.PaymentMethod, amount float64, cycle model.BillingCycle, source string) (string, error)
	HasActiveFunc func(ctx context.Context, userID string) (*usecase.EntitlementStatus, error)
}

var _ usecase.SubscriptionUseCase = (*MockSubscriptionUC)(nil)

func (m *MockSubscriptionUC) Activate(ctx context.Context, userID string, tier model.Tier, method model.PaymentMethod, amount float64, cycle model.BillingCycle, source string) (string, error) {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, userID, tier, method, amount, cycle, source)
	}
	return "sub-1", nil
}

func (m *MockSubscriptionUC) HasActive(ctx context.Context, userID string) (*usecase.EntitlementStatus, error) {
	if m.HasActiveFunc != nil {
		return m.HasActiveFunc(ctx, userID)
	}
	return &usecase.EntitlementStatus{}, nil
}

// ---- Mock SweepUseCase ----

type MockSweepUC struct {
	StalledFunc   func(ctx context.Context) (*usecase.SweepReport, error)
	AbandonedFunc func(ctx context.Context) (*usecase.SweepReport, error)
}

var _ usecase.SweepUseCase = (*MockSweepUC)(nil)

func (m *MockSweepUC) SweepStalledUsers(ctx context.Context) (*usecase.SweepReport, error) {
	if m.StalledFunc != nil {
		return m.StalledFunc(ctx)
	}
	return &usecase.SweepReport{}, nil
}

func (m *MockSweepUC) SweepAbandonedApplications(ctx context.Context) (*usecase.SweepReport, error) {
	if m.AbandonedFunc != nil {
		return m.AbandonedFunc(ctx)
	}
	return &usecase.SweepReport{}, nil
}

// ---- Mock ChatUseCase ----

type MockChatUC struct {
	AskFunc func(ctx context.Context, userID, question string) (string, error)
}

var _ usecase.ChatUseCase = (*MockChatUC)(nil)

func (m *MockChatUC) Ask(ctx context.Context, userID, question string) (string, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, userID, question)
	}
	return "canned reply", nil
}
