package dto

import (
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// ProcessPaymentRequest represents the API request for initiating a payment
type ProcessPaymentRequest struct {
	Gateway       string            `json:"gateway" binding:"required"`
	Amount        string            `json:"amount" binding:"required"`
	Currency      string            `json:"currency"`
	PaymentMethod string            `json:"paymentMethod" binding:"required,oneof=card wallet bank_transfer"`
	PaymentType   string            `json:"paymentType" binding:"required,oneof=one_time subscription invoice wallet_topup wallet_deduction"`
	Description   string            `json:"description"`
	CardToken     string            `json:"cardToken"`
	ReturnURL     string            `json:"returnUrl"`
	Metadata      map[string]string `json:"metadata"`
	InvoiceID     *uint64           `json:"invoiceId"`
	ProjectID     *uint64           `json:"projectId"`
}

// TransactionResponse represents a payment transaction in API responses
type TransactionResponse struct {
	ID               uint64     `json:"id"`
	Reference        string     `json:"reference"`
	Gateway          string     `json:"gateway"`
	GatewayReference string     `json:"gatewayReference,omitempty"`
	Amount           string     `json:"amount"`
	Currency         string     `json:"currency"`
	PaymentMethod    string     `json:"paymentMethod"`
	PaymentType      string     `json:"paymentType"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`
	FraudScore       int        `json:"fraudScore"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	FailedAt         *time.Time `json:"failedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	InvoiceID        *uint64    `json:"invoiceId,omitempty"`
	WalletID         *uint64    `json:"walletId,omitempty"`
	ProjectID        *uint64    `json:"projectId,omitempty"`
}

// NewTransactionResponse maps a transaction entity to its API representation
func NewTransactionResponse(txn *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               txn.ID,
		Reference:        txn.Reference,
		Gateway:          txn.Gateway,
		GatewayReference: txn.GatewayReference,
		Amount:           txn.Amount,
		Currency:         txn.Currency,
		PaymentMethod:    string(txn.PaymentMethod),
		PaymentType:      string(txn.PaymentType),
		Description:      txn.Description,
		Status:           string(txn.Status),
		FraudScore:       txn.FraudScore,
		CompletedAt:      txn.CompletedAt,
		FailedAt:         txn.FailedAt,
		CreatedAt:        txn.CreatedAt,
		InvoiceID:        txn.InvoiceID,
		WalletID:         txn.WalletID,
		ProjectID:        txn.ProjectID,
	}
}

// TransactionListResponse is a cursor-paginated page of transactions
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextCursor   uint64                `json:"nextCursor,omitempty"`
}

// GatewayResponse represents a configured gateway in API responses
type GatewayResponse struct {
	Name                 string   `json:"name"`
	DisplayName          string   `json:"displayName"`
	Active               bool     `json:"active"`
	SupportedCurrencies  []string `json:"supportedCurrencies"`
	SupportedMethods     []string `json:"supportedMethods"`
	MinAmount            string   `json:"minAmount"`
	MaxAmount            string   `json:"maxAmount"`
	FeePercent           float64  `json:"feePercent"`
	Supports3DSecure     bool     `json:"supports3dSecure"`
	SupportsTokenization bool     `json:"supportsTokenization"`
	SupportsRecurring    bool     `json:"supportsRecurring"`
	RequiresRedirect     bool     `json:"requiresRedirect"`
}

// NewGatewayResponse maps a gateway config to its API representation
func NewGatewayResponse(cfg *entity.GatewayConfig) GatewayResponse {
	methods := make([]string, 0, len(cfg.SupportedMethods))
	for _, m := range cfg.SupportedMethods {
		methods = append(methods, string(m))
	}
	return GatewayResponse{
		Name:                 cfg.Name,
		DisplayName:          cfg.DisplayName,
		Active:               cfg.Active,
		SupportedCurrencies:  cfg.SupportedCurrencies,
		SupportedMethods:     methods,
		MinAmount:            entity.FormatAmount(cfg.MinAmountInCents),
		MaxAmount:            entity.FormatAmount(cfg.MaxAmountInCents),
		FeePercent:           cfg.FeePercent,
		Supports3DSecure:     cfg.Supports3DSecure,
		SupportsTokenization: cfg.SupportsTokenization,
		SupportsRecurring:    cfg.SupportsRecurring,
		RequiresRedirect:     cfg.RequiresRedirect,
	}
}

// TokenizeCardRequest represents the API request for tokenizing a card.
// Card data is forwarded to the gateway and never persisted.
type TokenizeCardRequest struct {
	Gateway     string `json:"gateway" binding:"required"`
	CardNumber  string `json:"cardNumber" binding:"required"`
	ExpiryMonth int    `json:"expiryMonth" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiryYear" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
	HolderName  string `json:"holderName"`
}

// CardTokenResponse represents a tokenized card in API responses
type CardTokenResponse struct {
	Token   string `json:"token"`
	Last4   string `json:"last4"`
	Brand   string `json:"brand"`
	Gateway string `json:"gateway"`
}

// ThreeDSecureResponse represents an initiated 3-D-Secure session
type ThreeDSecureResponse struct {
	Applicable  bool   `json:"applicable"`
	SessionID   string `json:"sessionId,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// VerifyResponse represents a gateway-side transaction status query result
type VerifyResponse struct {
	Found      bool   `json:"found"`
	Status     string `json:"status,omitempty"`
	NativeCode string `json:"nativeCode,omitempty"`
}
