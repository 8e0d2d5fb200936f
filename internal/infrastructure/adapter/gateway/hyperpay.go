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

// HyperPayGatewayName is the registry name of the HyperPay processor
const HyperPayGatewayName = "hyperpay"

// HyperPay result codes (letter vocabulary)
const (
	hyperResultApproved = "A"
	hyperResultDeclined = "D"
	hyperResultPending  = "P"
	hyperResultRejected = "R"
)

// HyperPayAdapter simulates the HyperPay card processor: multi-currency,
// tokenization and recurring support, 3-D-Secure on demand rather than
// mandated.
type HyperPayAdapter struct {
	config        *entity.GatewayConfig
	webhookSecret string
	baseURL       string
}

// NewHyperPayAdapter creates the HyperPay adapter
func NewHyperPayAdapter(webhookSecret string) *HyperPayAdapter {
	return &HyperPayAdapter{
		config: &entity.GatewayConfig{
			Name:                 HyperPayGatewayName,
			DisplayName:          "HyperPay",
			Active:               true,
			SupportedCurrencies:  []string{"SAR", "USD", "EUR", "AED"},
			SupportedMethods:     []entity.PaymentMethod{entity.MethodCard, entity.MethodBank},
			MinAmountInCents:     50,
			MaxAmountInCents:     20000000, // 200,000.00
			FeePercent:           2.2,
			Supports3DSecure:     true,
			SupportsTokenization: true,
			SupportsRecurring:    true,
			RequiresRedirect:     false,
		},
		webhookSecret: webhookSecret,
		baseURL:       "https://eu-test.oppwa.example",
	}
}

// Name returns the registry name
func (a *HyperPayAdapter) Name() string { return HyperPayGatewayName }

// Config returns the static gateway metadata
func (a *HyperPayAdapter) Config() *entity.GatewayConfig { return a.config }

// ProcessPayment charges a card or initiates a bank transfer. Card payments
// without a prior token are pushed through 3-D-Secure.
func (a *HyperPayAdapter) ProcessPayment(ctx context.Context, req gatewayport.ProcessRequest) (*gatewayport.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Metadata["simulate"] == "decline" {
		return &gatewayport.ProcessResult{
			Success:    false,
			Status:     entity.GatewayDeclined,
			NativeCode: hyperResultDeclined,
			Message:    "transaction declined by issuer",
		}, nil
	}
	if req.Metadata["simulate"] == "error" {
		return nil, fmt.Errorf("%w: upstream connection reset", errs.ErrGatewayFailure)
	}

	checkoutID := "HP-" + strings.ToUpper(uuid.NewString()[:16])
	requires3DS := req.Method == entity.MethodCard && req.CardToken == ""

	result := &gatewayport.ProcessResult{
		Success:          true,
		GatewayReference: checkoutID,
		Status:           entity.GatewayProcessing,
		Requires3DS:      requires3DS,
		NativeCode:       hyperResultPending,
		Message:          "payment accepted for processing",
		Raw: map[string]any{
			"id":                    checkoutID,
			"merchantTransactionId": req.Reference,
			"result":                map[string]any{"code": hyperResultPending},
			"amount":                entity.FormatAmount(req.AmountInCents),
			"currency":              req.Currency,
		},
	}
	if requires3DS {
		result.RedirectURL = fmt.Sprintf("%s/v1/3ds/%s", a.baseURL, checkoutID)
	}
	return result, nil
}

// RefundTransaction submits a refund against an earlier charge
func (a *HyperPayAdapter) RefundTransaction(ctx context.Context, gatewayRef string, amountInCents int64) (*gatewayport.RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &gatewayport.RefundResult{
		Success:         true,
		GatewayRefundID: "HP-RF-" + strings.ToUpper(uuid.NewString()[:12]),
		Status:          entity.GatewayProcessing,
		Message:         "refund scheduled",
	}, nil
}

// VerifyTransaction queries the processor for a charge's state
func (a *HyperPayAdapter) VerifyTransaction(ctx context.Context, gatewayRef string) (*gatewayport.VerifyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if gatewayRef == "" {
		return &gatewayport.VerifyResult{Found: false}, nil
	}
	return &gatewayport.VerifyResult{
		Found:      true,
		Status:     entity.GatewayProcessing,
		NativeCode: hyperResultPending,
	}, nil
}

// HandleWebhook normalizes a HyperPay payment event
func (a *HyperPayAdapter) HandleWebhook(ctx context.Context, payload []byte, signature string) (*gatewayport.WebhookEvent, error) {
	if err := verifySignature(a.webhookSecret, payload, signature); err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: malformed HyperPay webhook payload", errs.ErrInvalidRequest)
	}

	body := gjson.ParseBytes(payload)
	eventType := body.Get("type").String()
	data := body.Get("payload")
	resultCode := data.Get("result.code").String()

	amountInCents, _ := entity.ParseAmount(data.Get("amount").String())
	event := &gatewayport.WebhookEvent{
		EventType:        eventType,
		Reference:        data.Get("merchantTransactionId").String(),
		GatewayReference: data.Get("id").String(),
		Status:           hyperStatus(resultCode),
		AmountInCents:    amountInCents,
		Currency:         data.Get("currency").String(),
		Metadata: map[string]string{
			"result_code": resultCode,
		},
		Processed: eventType == "PAYMENT",
	}
	return event, nil
}

// TokenizeCard exchanges card data for a registration token
func (a *HyperPayAdapter) TokenizeCard(ctx context.Context, req gatewayport.TokenizeRequest) (*gatewayport.CardToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.CardNumber) < 13 {
		return nil, fmt.Errorf("%w: card number too short", errs.ErrInvalidRequest)
	}
	return &gatewayport.CardToken{
		Token:   "tok_hp_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Last4:   req.CardNumber[len(req.CardNumber)-4:],
		Brand:   cardBrand(req.CardNumber),
		Gateway: HyperPayGatewayName,
	}, nil
}

// Initiate3DSecure starts an authentication session
func (a *HyperPayAdapter) Initiate3DSecure(ctx context.Context, reference string, amountInCents int64, currency string) (*gatewayport.ThreeDSecureSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sessionID := "HP-3DS-" + strings.ToUpper(uuid.NewString()[:12])
	return &gatewayport.ThreeDSecureSession{
		Applicable:  true,
		SessionID:   sessionID,
		RedirectURL: fmt.Sprintf("%s/v1/3ds/%s?ref=%s", a.baseURL, sessionID, reference),
	}, nil
}

// hyperStatus maps HyperPay's letter vocabulary onto the canonical set
func hyperStatus(code string) entity.GatewayStatus {
	switch code {
	case hyperResultApproved:
		return entity.GatewayCompleted
	case hyperResultDeclined:
		return entity.GatewayDeclined
	case hyperResultPending:
		return entity.GatewayProcessing
	case hyperResultRejected:
		return entity.GatewayFailed
	default:
		return entity.GatewayFailed
	}
}

// cardBrand guesses the brand from the leading digits, display-only
func cardBrand(cardNumber string) string {
	switch {
	case strings.HasPrefix(cardNumber, "4"):
		return "visa"
	case strings.HasPrefix(cardNumber, "5"):
		return "mastercard"
	default:
		return "card"
	}
}
