package entity

import (
	"fmt"
	"time"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
)

// TransactionStatus defines the lifecycle states of a payment transaction
type TransactionStatus string

// Transaction lifecycle states. Transitions are forward-only except for
// StatusDisputed, which can be entered from any post-creation state.
const (
	StatusPending    TransactionStatus = "PENDING"
	StatusPending3DS TransactionStatus = "PENDING_3DS"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusCompleted  TransactionStatus = "COMPLETED"
	StatusFailed     TransactionStatus = "FAILED"
	StatusDisputed   TransactionStatus = "DISPUTED"
)

// PaymentMethod identifies how the payer funds the transaction
type PaymentMethod string

// Payment methods
const (
	MethodCard   PaymentMethod = "card"
	MethodWallet PaymentMethod = "wallet"
	MethodBank   PaymentMethod = "bank_transfer"
)

// PaymentType tags what the transaction pays for
type PaymentType string

// Payment types
const (
	TypeOneTime      PaymentType = "one_time"
	TypeSubscription PaymentType = "subscription"
	TypeInvoice      PaymentType = "invoice"
	TypeWalletTopUp  PaymentType = "wallet_topup"
	TypeWalletDebit  PaymentType = "wallet_deduction"
)

// allowedTransitions encodes the forward-only state machine. DISPUTED is
// handled separately in ForceDisputed because it overrides forward-only.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusPending3DS, StatusProcessing, StatusCompleted, StatusFailed},
	StatusPending3DS: {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
	StatusDisputed:   {},
}

// Transaction is the canonical record of one attempted movement of funds,
// independent of which gateway handled it.
type Transaction struct {
	ID               uint64
	Reference        string // Globally unique human-readable reference minted at creation
	UserID           uint64
	Gateway          string // Registry name of the gateway handling this transaction
	GatewayReference string // Identifier assigned by the gateway, set after dispatch
	Amount           string // Amount as a string with 2 decimal places, immutable
	AmountInCents    int64  // Amount in minor units for precise arithmetic
	Currency         string // ISO currency code, immutable
	PaymentMethod    PaymentMethod
	PaymentType      PaymentType
	Description      string
	Status           TransactionStatus
	FraudScore       int    // Capped 0-100 score retained even when it does not block
	GatewayResponse  string // Raw gateway payload (JSON) kept for webhook correlation
	CompletedAt      *time.Time
	FailedAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Optional links to other platform records
	InvoiceID      *uint64
	SubscriptionID *uint64
	WalletID       *uint64
	ProjectID      *uint64
}

// NewTransaction creates a pending transaction with a freshly minted reference
func NewTransaction(
	userID uint64,
	gateway string,
	amount string,
	currency string,
	method PaymentMethod,
	paymentType PaymentType,
	description string,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if currency == "" {
		return nil, errs.ErrInvalidCurrency
	}
	if !isValidMethod(method) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidPaymentMethod, method)
	}

	amountInCents, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if amountInCents == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidAmount)
	}

	now := timeProvider.Now()
	return &Transaction{
		Reference:     NewPaymentReference(now),
		UserID:        userID,
		Gateway:       gateway,
		Amount:        FormatAmount(amountInCents),
		AmountInCents: amountInCents,
		Currency:      currency,
		PaymentMethod: method,
		PaymentType:   paymentType,
		Description:   description,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CanTransitionTo reports whether the state machine permits moving from the
// current status to target.
func (t *Transaction) CanTransitionTo(target TransactionStatus) bool {
	if target == StatusDisputed {
		return true
	}
	for _, allowed := range allowedTransitions[t.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo applies a status change, enforcing the state machine and
// stamping completion/failure timestamps.
func (t *Transaction) TransitionTo(target TransactionStatus, timeProvider coreport.TimeProvider) error {
	if target == StatusDisputed {
		t.ForceDisputed(timeProvider)
		return nil
	}
	if !t.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidStatusTransition, t.Status, target)
	}

	now := timeProvider.Now()
	switch target {
	case StatusCompleted:
		t.CompletedAt = &now
	case StatusFailed:
		t.FailedAt = &now
	}
	t.Status = target
	t.UpdatedAt = now
	return nil
}

// MarkFailed moves the transaction to FAILED and records the failure reason
// in the gateway response payload.
func (t *Transaction) MarkFailed(reason string, timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	t.Status = StatusFailed
	t.FailedAt = &now
	t.UpdatedAt = now
	if reason != "" {
		t.GatewayResponse = fmt.Sprintf(`{"error":%q}`, reason)
	}
}

// ForceDisputed is the one sanctioned exception to the forward-only state
// machine: a dispute freezes the transaction regardless of its current state.
func (t *Transaction) ForceDisputed(timeProvider coreport.TimeProvider) {
	t.Status = StatusDisputed
	t.UpdatedAt = timeProvider.Now()
}

// IsTerminal reports whether the transaction has reached a final state
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed || t.Status == StatusDisputed
}

// SetFraudScore stores the capped display score. The raw additive score is
// only used for the block decision, never persisted.
func (t *Transaction) SetFraudScore(score int) {
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	t.FraudScore = score
}

func isValidMethod(method PaymentMethod) bool {
	return method == MethodCard || method == MethodWallet || method == MethodBank
}

// IsValidPaymentMethod validates a raw method string
func IsValidPaymentMethod(method string) bool {
	return isValidMethod(PaymentMethod(method))
}
