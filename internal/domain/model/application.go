package model

import (
	"strconv"
	"strings"
	"time"

	"billionaireable/internal/domain"
)

type ApplicationStatus string

const (
	ApplicationStatusPending         ApplicationStatus = "pending"          // non-wire methods; waiting on processor callback
	ApplicationStatusAwaitingPayment ApplicationStatus = "awaiting_payment" // wire instructions issued; waiting on the bank
	ApplicationStatusApproved        ApplicationStatus = "approved"         // payment verified, subscription activated
	ApplicationStatusInsufficient    ApplicationStatus = "payment_insufficient"
	ApplicationStatusRejected        ApplicationStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentMethodWire   PaymentMethod = "wire"
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodWhop   PaymentMethod = "whop"
	PaymentMethodManual PaymentMethod = "manual"
)

// PaymentApplication records one payment intent from submission through its
// terminal resolution. Rows are never hard-deleted; rejected and underpaid
// applications stay in the ledger as the audit trail.
type PaymentApplication struct {
	ID                string // UUID
	UserID            string // UUID of user
	UserEmail         string // snapshot at creation time
	UserName          string // snapshot at creation time
	Tier              Tier
	BillingCycle      BillingCycle
	Amount            float64 // expected charge as recorded at creation
	PaymentMethod     PaymentMethod
	Status            ApplicationStatus
	WireReference     string   // unique reconciliation key, immutable once assigned
	PaymentReference  *string  // external confirmation id
	BankReference     *string  // bank-side id supplied on wire confirmation
	PaymentSource     *string  // set on verification
	AmountReceived    *float64 // set on wire confirmation
	Notes             *string  // set on rejection/insufficiency
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PaymentVerifiedAt *time.Time
}

// WireReferencePrefix precedes the base36 token printed on the wire memo line.
const WireReferencePrefix = "BILL-"

// NewWireReference derives a human-readable reconciliation token from the
// current clock tick. Collisions within the same millisecond are possible at
// sufficient volume; the storage layer enforces uniqueness and the caller
// retries on conflict.
func NewWireReference(now time.Time) string {
	return WireReferencePrefix + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}

// NewPaymentApplication creates a fresh application. Wire applications start
// awaiting the bank; every other method starts pending on its processor.
func NewPaymentApplication(id, userID, userEmail, userName string, tier Tier, cycle BillingCycle, amount float64, method PaymentMethod) (*PaymentApplication, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	status := ApplicationStatusPending
	if method == PaymentMethodWire {
		status = ApplicationStatusAwaitingPayment
	}
	return &PaymentApplication{
		ID:            id,
		UserID:        userID,
		UserEmail:     userEmail,
		UserName:      userName,
		Tier:          tier,
		BillingCycle:  cycle,
		Amount:        amount,
		PaymentMethod: method,
		Status:        status,
		WireReference: NewWireReference(now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Open reports whether the application still awaits resolution.
func (a *PaymentApplication) Open() bool {
	return a.Status == ApplicationStatusPending || a.Status == ApplicationStatusAwaitingPayment
}

// WireInstructions is the payload a payer needs to send the transfer. The
// bank fields come from process-wide config; only Reference and Amount are
// application-specific, so the payload is synthesized at read time and never
// persisted.
type WireInstructions struct {
	BankName      string  `json:"bankName"`
	AccountName   string  `json:"accountName"`
	RoutingNumber string  `json:"routingNumber"`
	AccountNumber string  `json:"accountNumber"`
	SwiftCode     string  `json:"swiftCode"`
	Reference     string  `json:"reference"`
	Amount        float64 `json:"amount"`
}
