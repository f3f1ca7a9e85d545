// File: internal/usecase/application_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"billionaireable/internal/config"
	"billionaireable/internal/domain"
	"billionaireable/internal/domain/model"
	"billionaireable/internal/domain/ports/repository"
	"billionaireable/internal/infra/metrics"
)

// insufficientTolerance accepts a shortfall of up to 1% against the expected
// amount, covering processor fee rounding. A deliberate allowance, compared
// against the client-recorded amount on the verify path and against the
// bank-reported figure on the wire-confirm path.
const insufficientTolerance = 0.99

const (
	ReasonReferenceNotFound   = "reference_not_found"
	ReasonInsufficientPayment = "insufficient_payment"
	ReasonInsufficientAmount  = "insufficient_amount"
)

// Compile-time check
var _ ApplicationUseCase = (*applicationUC)(nil)

// CreateResult carries the new application and, for wire payments, the
// instructions payload the payer needs.
type CreateResult struct {
	Application      *model.PaymentApplication
	WireInstructions *model.WireInstructions
}

// VerifyResult is the structured outcome of a verification attempt.
// Business failures (insufficient amount, unknown reference) land here;
// genuine faults come back as errors.
type VerifyResult struct {
	Success       bool
	Reason        string
	ApplicationID string
	Tier          model.Tier
	AccessGranted bool
}

type ApplicationUseCase interface {
	// Create opens a payment application for a user and, for wire payments,
	// returns the bank instructions carrying the generated reference.
	Create(ctx context.Context, userID string, tier model.Tier, cycle model.BillingCycle, amount float64, method model.PaymentMethod) (*CreateResult, error)
	// VerifyAndActivate checks the recorded amount against the catalog and,
	// when sufficient, approves the application and activates the subscription.
	VerifyAndActivate(ctx context.Context, applicationID string, paymentRef *string, source string) (*VerifyResult, error)
	// ConfirmWire resolves an application by its wire reference using the
	// bank-reported amount. Entry point for the verification webhook.
	ConfirmWire(ctx context.Context, wireReference string, amountReceived float64, bankRef *string) (*VerifyResult, error)
	// UpdateStatus is the unconditional admin override. Setting "approved"
	// activates the subscription without any amount check.
	UpdateStatus(ctx context.Context, applicationID string, status model.ApplicationStatus, notes *string) error

	ListAll(ctx context.Context) ([]*model.PaymentApplication, error)
	ListPending(ctx context.Context) ([]*model.PaymentApplication, error)
	ListByUser(ctx context.Context, userID string) ([]*model.PaymentApplication, error)
	Get(ctx context.Context, applicationID string) (*model.PaymentApplication, *model.WireInstructions, error)
	HasOpenApplication(ctx context.Context, userID string) (bool, error)
}

type applicationUC struct {
	apps    repository.ApplicationRepository
	users   repository.UserRepository
	subUC   SubscriptionUseCase
	catalog *model.Catalog
	wire    config.WireConfig
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewApplicationUseCase(
	apps repository.ApplicationRepository,
	users repository.UserRepository,
	subUC SubscriptionUseCase,
	catalog *model.Catalog,
	wire config.WireConfig,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *applicationUC {
	l := logger.With().Str("component", "ApplicationUC").Logger()
	return &applicationUC{
		apps:    apps,
		users:   users,
		subUC:   subUC,
		catalog: catalog,
		wire:    wire,
		tm:      tm,
		log:     &l,
	}
}

func (u *applicationUC) Create(ctx context.Context, userID string, tier model.Tier, cycle model.BillingCycle, amount float64, method model.PaymentMethod) (*CreateResult, error) {
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}

	app, err := model.NewPaymentApplication(uuid.NewString(), user.ID, user.Email, user.Name, tier, cycle, amount, method)
	if err != nil {
		return nil, err
	}

	// The reference is clock-derived; a concurrent creation within the same
	// millisecond trips the unique index, so regenerate and retry a few times
	// before giving up.
	for attempt := 0; ; attempt++ {
		err = u.apps.Save(ctx, repository.NoTX, app)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) || attempt >= 3 {
			return nil, err
		}
		time.Sleep(time.Millisecond)
		app.WireReference = model.NewWireReference(time.Now())
	}

	metrics.IncApplication(string(method))
	u.log.Info().
		Str("application_id", app.ID).
		Str("user_id", user.ID).
		Str("tier", string(tier)).
		Str("method", string(method)).
		Msg("payment application created")

	res := &CreateResult{Application: app}
	if method == model.PaymentMethodWire {
		res.WireInstructions = u.instructionsFor(app)
	}
	return res, nil
}

func (u *applicationUC) VerifyAndActivate(ctx context.Context, applicationID string, paymentRef *string, source string) (*VerifyResult, error) {
	app, err := u.apps.FindByID(ctx, repository.NoTX, applicationID)
	if err != nil {
		return nil, err
	}

	expected, err := u.catalog.ExpectedAmount(app.Tier, app.BillingCycle)
	if err != nil {
		return nil, err
	}

	// Checks the amount recorded at creation, which originated in the payer's
	// browser. The wire-confirm path compares the bank-attested figure instead.
	if app.Amount < expected*insufficientTolerance {
		notes := fmt.Sprintf("expected %.2f, received %.2f", expected, app.Amount)
		if err := u.apps.UpdateStatus(ctx, repository.NoTX, app.ID, model.ApplicationStatusInsufficient, &notes, nil); err != nil {
			return nil, err
		}
		metrics.IncVerification("insufficient")
		return &VerifyResult{Success: false, Reason: ReasonInsufficientPayment, ApplicationID: app.ID}, nil
	}

	now := time.Now()
	src := source
	if err := u.apps.MarkVerified(ctx, repository.NoTX, app.ID, paymentRef, nil, &src, nil, now); err != nil {
		return nil, err
	}

	if _, err := u.subUC.Activate(ctx, app.UserID, app.Tier, app.PaymentMethod, app.Amount, app.BillingCycle, source); err != nil {
		return nil, err
	}

	metrics.IncVerification("approved")
	u.log.Info().
		Str("application_id", app.ID).
		Str("user_id", app.UserID).
		Str("source", source).
		Msg("payment verified, access granted")
	return &VerifyResult{Success: true, ApplicationID: app.ID, Tier: app.Tier, AccessGranted: true}, nil
}

func (u *applicationUC) ConfirmWire(ctx context.Context, wireReference string, amountReceived float64, bankRef *string) (*VerifyResult, error) {
	app, err := u.apps.FindByWireReference(ctx, repository.NoTX, wireReference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncVerification("reference_not_found")
			return &VerifyResult{Success: false, Reason: ReasonReferenceNotFound}, nil
		}
		return nil, err
	}

	expected, err := u.catalog.ExpectedAmount(app.Tier, app.BillingCycle)
	if err != nil {
		return nil, err
	}

	if amountReceived < expected*insufficientTolerance {
		notes := fmt.Sprintf("expected %.2f, received %.2f", expected, amountReceived)
		if err := u.apps.UpdateStatus(ctx, repository.NoTX, app.ID, model.ApplicationStatusInsufficient, &notes, nil); err != nil {
			return nil, err
		}
		metrics.IncVerification("insufficient")
		u.log.Warn().
			Str("application_id", app.ID).
			Float64("expected", expected).
			Float64("received", amountReceived).
			Msg("wire amount below tolerance")
		return &VerifyResult{Success: false, Reason: ReasonInsufficientAmount, ApplicationID: app.ID}, nil
	}

	now := time.Now()
	src := "wire"
	received := amountReceived
	// Re-read under lock and stamp the approval in one transaction so a racing
	// confirmation cannot interleave between the read and the write. The
	// subscription activation stays outside: two mutations, converging outcome.
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if _, err := u.apps.FindByID(ctx, tx, app.ID); err != nil {
			return err
		}
		return u.apps.MarkVerified(ctx, tx, app.ID, nil, bankRef, &src, &received, now)
	})
	if err != nil {
		return nil, err
	}

	if _, err := u.subUC.Activate(ctx, app.UserID, app.Tier, app.PaymentMethod, app.Amount, app.BillingCycle, "wire"); err != nil {
		return nil, err
	}

	metrics.IncVerification("approved")
	metrics.AddWireRevenue(amountReceived)
	u.log.Info().
		Str("application_id", app.ID).
		Str("wire_reference", wireReference).
		Float64("amount_received", amountReceived).
		Msg("wire payment confirmed")
	return &VerifyResult{Success: true, ApplicationID: app.ID, Tier: app.Tier, AccessGranted: true}, nil
}

func (u *applicationUC) UpdateStatus(ctx context.Context, applicationID string, status model.ApplicationStatus, notes *string) error {
	app, err := u.apps.FindByID(ctx, repository.NoTX, applicationID)
	if err != nil {
		return err
	}

	var verifiedAt *time.Time
	if status == model.ApplicationStatusApproved {
		now := time.Now()
		verifiedAt = &now
	}
	if err := u.apps.UpdateStatus(ctx, repository.NoTX, app.ID, status, notes, verifiedAt); err != nil {
		return err
	}

	// The escape hatch for "webhook didn't fire": approval by admin judgment
	// activates without re-checking the amount.
	if status == model.ApplicationStatusApproved {
		if _, err := u.subUC.Activate(ctx, app.UserID, app.Tier, app.PaymentMethod, app.Amount, app.BillingCycle, string(app.PaymentMethod)); err != nil {
			return err
		}
		metrics.IncVerification("manual_override")
		u.log.Info().
			Str("application_id", app.ID).
			Str("user_id", app.UserID).
			Msg("application approved by manual override")
	}
	return nil
}

func (u *applicationUC) ListAll(ctx context.Context) ([]*model.PaymentApplication, error) {
	return u.apps.ListAll(ctx, repository.NoTX)
}

func (u *applicationUC) ListPending(ctx context.Context) ([]*model.PaymentApplication, error) {
	return u.apps.ListByStatus(ctx, repository.NoTX, model.ApplicationStatusPending, model.ApplicationStatusAwaitingPayment)
}

func (u *applicationUC) ListByUser(ctx context.Context, userID string) ([]*model.PaymentApplication, error) {
	return u.apps.ListByUser(ctx, repository.NoTX, userID)
}

// Get returns the application joined with its wire-instructions view. The
// instructions are synthesized from static config plus the stored reference
// and amount; they are never persisted redundantly.
func (u *applicationUC) Get(ctx context.Context, applicationID string) (*model.PaymentApplication, *model.WireInstructions, error) {
	app, err := u.apps.FindByID(ctx, repository.NoTX, applicationID)
	if err != nil {
		return nil, nil, err
	}
	return app, u.instructionsFor(app), nil
}

func (u *applicationUC) HasOpenApplication(ctx context.Context, userID string) (bool, error) {
	return u.apps.HasOpen(ctx, repository.NoTX, userID)
}

func (u *applicationUC) instructionsFor(app *model.PaymentApplication) *model.WireInstructions {
	return &model.WireInstructions{
		BankName:      u.wire.BankName,
		AccountName:   u.wire.AccountName,
		RoutingNumber: u.wire.RoutingNumber,
		AccountNumber: u.wire.AccountNumber,
		SwiftCode:     u.wire.SwiftCode,
		Reference:     app.WireReference,
		Amount:        app.Amount,
	}
}
