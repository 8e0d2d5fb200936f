package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	gatewayport "github.com/researchlink/payment-processor/internal/domain/port/gateway"
)

// STCPayGatewayName is the registry name of the STC Pay wallet network
const STCPayGatewayName = "stcpay"

// STC Pay payment statuses (word vocabulary)
const (
	stcStatusPaid      = "PAID"
	stcStatusPending   = "PENDING"
	stcStatusDeclined  = "DECLINED"
	stcStatusCancelled = "CANCELLED"
	stcStatusExpired   = "EXPIRED"
)

// STCPayAdapter simulates the STC Pay mobile wallet. Payments are authorized
// by the payer inside the STC Pay app, so every payment is redirect-based and
// there is no card 3-D-Secure or tokenization to speak of.
type STCPayAdapter struct {
	config        *entity.GatewayConfig
	webhookSecret string
	baseURL       string
}

// NewSTCPayAdapter creates the STC Pay adapter
func NewSTCPayAdapter(webhookSecret string) *STCPayAdapter {
	return &STCPayAdapter{
		config: &entity.GatewayConfig{
			Name:                 STCPayGatewayName,
			DisplayName:          "STC Pay",
			Active:               true,
			SupportedCurrencies:  []string{"SAR"},
			SupportedMethods:     []entity.PaymentMethod{entity.MethodWallet},
			MinAmountInCents:     100,     // 1.00 SAR
			MaxAmountInCents:     1000000, // 10,000.00 SAR
			FeePercent:           1.5,
			Supports3DSecure:     false,
			SupportsTokenization: false,
			SupportsRecurring:    false,
			RequiresRedirect:     true,
		},
		webhookSecret: webhookSecret,
		baseURL:       "https://pay.stc.sa.example",
	}
}

// Name returns the registry name
func (a *STCPayAdapter) Name() string { return STCPayGatewayName }

// Config returns the static gateway metadata
func (a *STCPayAdapter) Config() *entity.GatewayConfig { return a.config }

// ProcessPayment opens a payment request the payer approves in the app
func (a *STCPayAdapter) ProcessPayment(ctx context.Context, req gatewayport.ProcessRequest) (*gatewayport.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Method != entity.MethodWallet {
		return &gatewayport.ProcessResult{
			Success:    false,
			Status:     entity.GatewayDeclined,
			NativeCode: stcStatusDeclined,
			Message:    "STC Pay only processes wallet payments",
		}, nil
	}

	if req.Metadata["simulate"] == "decline" {
		return &gatewayport.ProcessResult{
			Success:    false,
			Status:     entity.GatewayDeclined,
			NativeCode: stcStatusDeclined,
			Message:    "payment request rejected",
		}, nil
	}

	refNum := "STC-" + strings.ToUpper(uuid.NewString()[:16])
	return &gatewayport.ProcessResult{
		Success:          true,
		GatewayReference: refNum,
		Status:           entity.GatewayProcessing,
		Requires3DS:      false,
		RedirectURL:      fmt.Sprintf("%s/checkout/%s", a.baseURL, refNum),
		NativeCode:       stcStatusPending,
		Message:          "awaiting payer approval",
		Raw: map[string]any{
			"RefNum":         refNum,
			"MerchantRefNum": req.Reference,
			"PaymentStatus":  stcStatusPending,
			"Amount":         entity.FormatAmount(req.AmountInCents),
			"Currency":       req.Currency,
		},
	}, nil
}

// RefundTransaction submits a wallet refund
func (a *STCPayAdapter) RefundTransaction(ctx context.Context, gatewayRef string, amountInCents int64) (*gatewayport.RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &gatewayport.RefundResult{
		Success:         true,
		GatewayRefundID: "STC-RF-" + strings.ToUpper(uuid.NewString()[:12]),
		Status:          entity.GatewayProcessing,
		Message:         "refund accepted",
	}, nil
}

// VerifyTransaction queries STC Pay for a payment's state
func (a *STCPayAdapter) VerifyTransaction(ctx context.Context, gatewayRef string) (*gatewayport.VerifyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if gatewayRef == "" {
		return &gatewayport.VerifyResult{Found: false}, nil
	}
	return &gatewayport.VerifyResult{
		Found:      true,
		Status:     entity.GatewayProcessing,
		NativeCode: stcStatusPending,
	}, nil
}

// HandleWebhook normalizes an STC Pay payment notification
func (a *STCPayAdapter) HandleWebhook(ctx context.Context, payload []byte, signature string) (*gatewayport.WebhookEvent, error) {
	if err := verifySignature(a.webhookSecret, payload, signature); err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: malformed STC Pay webhook payload", errs.ErrInvalidRequest)
	}

	body := gjson.ParseBytes(payload)
	messageType := body.Get("MessageType").String()
	paymentStatus := body.Get("PaymentStatus").String()

	amountInCents, _ := entity.ParseAmount(body.Get("Amount").String())
	event := &gatewayport.WebhookEvent{
		EventType:        messageType,
		Reference:        body.Get("MerchantRefNum").String(),
		GatewayReference: body.Get("RefNum").String(),
		Status:           stcStatus(paymentStatus),
		AmountInCents:    amountInCents,
		Currency:         body.Get("Currency").String(),
		Metadata: map[string]string{
			"PaymentStatus": paymentStatus,
		},
		Processed: messageType == "PaymentNotification",
	}
	return event, nil
}

// TokenizeCard is not a capability of a wallet network. Reported honestly
// rather than silently succeeding.
func (a *STCPayAdapter) TokenizeCard(ctx context.Context, req gatewayport.TokenizeRequest) (*gatewayport.CardToken, error) {
	return nil, fmt.Errorf("%w: STC Pay does not tokenize cards", errs.ErrInvalidRequest)
}

// Initiate3DSecure is not applicable to wallet payments
func (a *STCPayAdapter) Initiate3DSecure(ctx context.Context, reference string, amountInCents int64, currency string) (*gatewayport.ThreeDSecureSession, error) {
	return &gatewayport.ThreeDSecureSession{Applicable: false}, nil
}

// stcStatus maps STC Pay's word vocabulary onto the canonical set
func stcStatus(status string) entity.GatewayStatus {
	switch status {
	case stcStatusPaid:
		return entity.GatewayCompleted
	case stcStatusPending:
		return entity.GatewayProcessing
	case stcStatusDeclined:
		return entity.GatewayDeclined
	case stcStatusCancelled, stcStatusExpired:
		return entity.GatewayCancelled
	default:
		return entity.GatewayFailed
	}
}
