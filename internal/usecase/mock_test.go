//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/adapter"
	"billionaireable/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func strPtr(s string) *string { return &s }

// =============================
// Tx manager
// =============================

type MockTxManager struct {
	Calls int
}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	return fn(ctx, struct{}{})
}

// =============================
// Repositories
// =============================

// ---- Applications ----

type MockApplicationRepo struct {
	mu    sync.Mutex
	byID  map[string]*model.PaymentApplication
	byRef map[string]string // wire reference -> id

	SaveFunc                func(ctx context.Context, tx repository.Tx, a *model.PaymentApplication) error
	FindByIDFunc            func(ctx context.Context, tx repository.Tx, id string) (*model.PaymentApplication, error)
	FindByWireReferenceFunc func(ctx context.Context, tx repository.Tx, ref string) (*model.PaymentApplication, error)
	UpdateStatusFunc        func(ctx context.Context, tx repository.Tx, id string, status model.ApplicationStatus, notes *string, verifiedAt *time.Time) error
	MarkVerifiedFunc        func(ctx context.Context, tx repository.Tx, id string, paymentRef, bankRef, source *string, amountReceived *float64, verifiedAt time.Time) error
	ListAwaitingFunc        func(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.PaymentApplication, error)
}

func NewMockApplicationRepo() *MockApplicationRepo {
	return &MockApplicationRepo{byID: map[string]*model.PaymentApplication{}, byRef: map[string]string{}}
}

var _ repository.ApplicationRepository = (*MockApplicationRepo)(nil)

func (m *MockApplicationRepo) Save(ctx context.Context, tx repository.Tx, a *model.PaymentApplication) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if otherID, ok := m.byRef[a.WireReference]; ok && otherID != a.ID {
		return domain.ErrAlreadyExists
	}
	cp := *a
	m.byID[a.ID] = &cp
	m.byRef[a.WireReference] = a.ID
	return nil
}

func (m *MockApplicationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentApplication, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockApplicationRepo) FindByWireReference(ctx context.Context, tx repository.Tx, ref string) (*model.PaymentApplication, error) {
	if m.FindByWireReferenceFunc != nil {
		return m.FindByWireReferenceFunc(ctx, tx, ref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byRef[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m.byID[id]
	return &cp, nil
}

func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.ApplicationStatus, notes *string, verifiedAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, notes, verifiedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	if notes != nil {
		a.Notes = notes
	}
	if verifiedAt != nil {
		a.PaymentVerifiedAt = verifiedAt
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (m *MockApplicationRepo) MarkVerified(ctx context.Context, tx repository.Tx, id string, paymentRef, bankRef, source *string, amountReceived *float64, verifiedAt time.Time) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, tx, id, paymentRef, bankRef, source, amountReceived, verifiedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = model.ApplicationStatusApproved
	if paymentRef != nil {
		a.PaymentReference = paymentRef
	}
	if bankRef != nil {
		a.BankReference = bankRef
	}
	a.PaymentSource = source
	if amountReceived != nil {
		a.AmountReceived = amountReceived
	}
	a.PaymentVerifiedAt = &verifiedAt
	a.UpdatedAt = verifiedAt
	return nil
}

func (m *MockApplicationRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PaymentApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.PaymentApplication, 0, len(m.byID))
	for _, a := range m.byID {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockApplicationRepo) ListByStatus(ctx context.Context, tx repository.Tx, statuses ...model.ApplicationStatus) ([]*model.PaymentApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentApplication
	for _, a := range m.byID {
		for _, s := range statuses {
			if a.Status == s {
				cp := *a
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (m *MockApplicationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.PaymentApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentApplication
	for _, a := range m.byID {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockApplicationRepo) ListAwaitingCreatedBetween(ctx context.Context, tx repository.Tx, from, to time.Time) ([]*model.PaymentApplication, error) {
	if m.ListAwaitingFunc != nil {
		return m.ListAwaitingFunc(ctx, tx, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentApplication
	for _, a := range m.byID {
		if a.Status == model.ApplicationStatusAwaitingPayment && a.CreatedAt.After(from) && a.CreatedAt.Before(to) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockApplicationRepo) HasOpen(ctx context.Context, tx repository.Tx, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.UserID == userID && a.Open() {
			return true, nil
		}
	}
	return false, nil
}

// ---- Subscriptions ----

type MockSubscriptionRepo struct {
	mu     sync.Mutex
	byUser map[string]*model.Subscription

	UpsertFunc     func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error)
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{byUser: map[string]*model.Subscription{}}
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func (m *MockSubscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byUser[s.UserID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Subscription, 0, len(m.byUser))
	for _, s := range m.byUser {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// ---- Users ----

type MockUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.User

	FindByIDFunc    func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	ListStalledFunc func(ctx context.Context, tx repository.Tx, loginBefore, progressBefore time.Time) ([]*model.User, error)
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{byID: map[string]*model.User{}}
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func (m *MockUserRepo) Put(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[u.ID] = &cp
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) ListStalled(ctx context.Context, tx repository.Tx, loginBefore, progressBefore time.Time) ([]*model.User, error) {
	if m.ListStalledFunc != nil {
		return m.ListStalledFunc(ctx, tx, loginBefore, progressBefore)
	}
	return nil, nil
}

// ---- Notification log ----

type MockNotificationLogRepo struct {
	mu    sync.Mutex
	Saved []struct {
		UserID        string
		ApplicationID string
		Kind          string
	}

	SaveFunc func(ctx context.Context, tx repository.Tx, userID, applicationID, kind string) error
}

func NewMockNotificationLogRepo() *MockNotificationLogRepo { return &MockNotificationLogRepo{} }

var _ repository.NotificationLogRepository = (*MockNotificationLogRepo)(nil)

func (m *MockNotificationLogRepo) Save(ctx context.Context, tx repository.Tx, userID, applicationID, kind string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, userID, applicationID, kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, struct {
		UserID        string
		ApplicationID string
		Kind          string
	}{userID, applicationID, kind})
	return nil
}

func (m *MockNotificationLogRepo) CountByKindSince(ctx context.Context, tx repository.Tx, kind string, sinceDays int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.Saved {
		if s.Kind == kind {
			n++
		}
	}
	return n, nil
}

// =============================
// Adapters
// =============================

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type MockMailer struct {
	mu   sync.Mutex
	Sent []sentMail

	SendFunc func(ctx context.Context, to, subject, htmlBody string) error
}

func NewMockMailer() *MockMailer { return &MockMailer{} }

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, htmlBody)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

type MockConcierge struct {
	ChatFunc func(ctx context.Context, messages []adapter.Message) (string, error)
	Calls    [][]adapter.Message
}

var _ adapter.ConciergeAdapter = (*MockConcierge)(nil)

func (m *MockConcierge) Chat(ctx context.Context, messages []adapter.Message) (string, error) {
	m.Calls = append(m.Calls, messages)
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return "canned reply", nil
}

// =============================
// Fixtures
// =============================

func testCatalog() *model.Catalog {
	return model.NewCatalog(map[model.Tier]model.TierPricing{
		model.TierFounder: {MonthlyAmount: 97, AnnualAmount: 970},
		model.TierScaler:  {MonthlyAmount: 297, AnnualAmount: 2970},
		model.TierOwner:   {MonthlyAmount: 997, AnnualAmount: 9970},
	}, 25000)
}
