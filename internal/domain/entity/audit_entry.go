package entity

import "time"

// Audit action tags
const (
	ActionPaymentInitiated = "PAYMENT_INITIATED"
	ActionPaymentFailed    = "PAYMENT_FAILED"
	ActionFraudBlocked     = "FRAUD_BLOCKED"
	ActionWebhookReceived  = "WEBHOOK_RECEIVED"
	ActionRefunded         = "REFUNDED"
	ActionDisputeOpened    = "DISPUTE_OPENED"
	ActionWalletTopUp      = "WALLET_TOPUP"
	ActionWalletDeduction  = "WALLET_DEDUCTION"
	ActionInvoicePaid      = "INVOICE_PAID"
)

// AuditEntry is an immutable append-only record of one lifecycle transition.
// PerformedBy is nil for system-initiated actions such as webhooks.
type AuditEntry struct {
	ID            uint64
	TransactionID uint64
	Action        string
	PerformedBy   *uint64
	Details       string // Free-form JSON payload
	IPAddress     string
	UserAgent     string
	CreatedAt     time.Time
}
