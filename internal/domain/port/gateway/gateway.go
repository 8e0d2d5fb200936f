package gateway

import (
	"context"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// ProcessRequest is the gateway-agnostic input for dispatching a payment
type ProcessRequest struct {
	Reference     string // Internal transaction reference, echoed back by webhooks
	AmountInCents int64
	Currency      string
	Method        entity.PaymentMethod
	Description   string
	CardToken     string            // Opaque token from TokenizeCard, never raw card data
	ReturnURL     string            // Where interactive flows send the payer afterwards
	Metadata      map[string]string // Arbitrary pass-through metadata
}

// ProcessResult is the normalized outcome of a payment dispatch
type ProcessResult struct {
	Success          bool
	GatewayReference string
	Status           entity.GatewayStatus
	Requires3DS      bool
	RedirectURL      string
	NativeCode       string // The network's own status vocabulary, for audit
	Message          string
	Raw              map[string]any // Full simulated gateway response, persisted for correlation
}

// RefundResult is the normalized outcome of a refund dispatch
type RefundResult struct {
	Success         bool
	GatewayRefundID string
	Status          entity.GatewayStatus
	Message         string
}

// VerifyResult is the normalized outcome of a transaction status query
type VerifyResult struct {
	Found         bool
	Status        entity.GatewayStatus
	AmountInCents int64
	Currency      string
	NativeCode    string
}

// WebhookEvent is the canonical shape every adapter normalizes an inbound
// webhook payload into. Reference and GatewayReference are correlation ids;
// either may be empty depending on what the network echoes back.
type WebhookEvent struct {
	EventType        string
	Reference        string
	GatewayReference string
	Status           entity.GatewayStatus
	AmountInCents    int64
	Currency         string
	Metadata         map[string]string
	Processed        bool // False when the adapter recognized but ignored the event
}

// TokenizeRequest carries card data for tokenization. None of it is ever
// persisted; only the returned token and display fields are.
type TokenizeRequest struct {
	CardNumber  string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
	HolderName  string
}

// CardToken is the opaque result of tokenizing a card
type CardToken struct {
	Token   string
	Last4   string
	Brand   string
	Gateway string
}

// ThreeDSecureSession describes an initiated interactive authentication.
// Applicable is false for networks that have no 3-D-Secure flow.
type ThreeDSecureSession struct {
	Applicable  bool
	SessionID   string
	RedirectURL string
}

// Adapter is the fixed capability contract every payment network implements.
// Adapters are stateless; capabilities they lack are reported honestly via
// Config flags or not-applicable results instead of silently succeeding.
type Adapter interface {
	// Name returns the registry name of the gateway
	Name() string
	// ProcessPayment dispatches a payment to the network
	ProcessPayment(ctx context.Context, req ProcessRequest) (*ProcessResult, error)
	// RefundTransaction dispatches a refund against an earlier payment
	RefundTransaction(ctx context.Context, gatewayRef string, amountInCents int64) (*RefundResult, error)
	// VerifyTransaction queries the network for a transaction's current state
	VerifyTransaction(ctx context.Context, gatewayRef string) (*VerifyResult, error)
	// HandleWebhook normalizes an arbitrary inbound payload, verifying the
	// signature when the network signs its callbacks
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
	// TokenizeCard exchanges raw card data for an opaque token
	TokenizeCard(ctx context.Context, req TokenizeRequest) (*CardToken, error)
	// Initiate3DSecure starts interactive authentication for a transaction
	Initiate3DSecure(ctx context.Context, reference string, amountInCents int64, currency string) (*ThreeDSecureSession, error)
	// Config returns the static gateway metadata
	Config() *entity.GatewayConfig
}

// Registry resolves adapters by name. Built once at startup; unknown names
// fail fast with ErrGatewayNotFound rather than surfacing nil deep in a call
// chain.
type Registry interface {
	Get(name string) (Adapter, error)
	All() []Adapter
}
