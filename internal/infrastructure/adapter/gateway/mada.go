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

// MadaGatewayName is the registry name of the mada card network
const MadaGatewayName = "mada"

// mada response codes (ISO 8583 style numeric vocabulary)
const (
	madaCodeApproved    = "000"
	madaCodeDeclined    = "100"
	madaCodeInvalidCard = "116"
	madaCodeReversed    = "400"
	madaCodeHeldPending = "912"
)

// MadaAdapter simulates the Saudi mada card scheme. Card payments always go
// through 3-D-Secure, and webhooks carry numeric response codes.
type MadaAdapter struct {
	config        *entity.GatewayConfig
	webhookSecret string
	baseURL       string
}

// NewMadaAdapter creates the mada adapter
func NewMadaAdapter(webhookSecret string) *MadaAdapter {
	return &MadaAdapter{
		config: &entity.GatewayConfig{
			Name:                 MadaGatewayName,
			DisplayName:          "mada",
			Active:               true,
			SupportedCurrencies:  []string{"SAR"},
			SupportedMethods:     []entity.PaymentMethod{entity.MethodCard},
			MinAmountInCents:     100,     // 1.00 SAR
			MaxAmountInCents:     5000000, // 50,000.00 SAR
			FeePercent:           1.0,
			Supports3DSecure:     true,
			SupportsTokenization: true,
			SupportsRecurring:    false,
			RequiresRedirect:     false,
		},
		webhookSecret: webhookSecret,
		baseURL:       "https://acs.mada.sa.example",
	}
}

// Name returns the registry name
func (a *MadaAdapter) Name() string { return MadaGatewayName }

// Config returns the static gateway metadata
func (a *MadaAdapter) Config() *entity.GatewayConfig { return a.config }

// ProcessPayment authorizes a card payment. mada mandates 3-D-Secure for
// e-commerce, so every successful authorization comes back requiring
// interactive authentication.
func (a *MadaAdapter) ProcessPayment(ctx context.Context, req gatewayport.ProcessRequest) (*gatewayport.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Method != entity.MethodCard {
		return &gatewayport.ProcessResult{
			Success:    false,
			Status:     entity.GatewayDeclined,
			NativeCode: madaCodeInvalidCard,
			Message:    "mada only processes card payments",
		}, nil
	}

	if req.Metadata["simulate"] == "decline" {
		return &gatewayport.ProcessResult{
			Success:    false,
			Status:     entity.GatewayDeclined,
			NativeCode: madaCodeDeclined,
			Message:    "do not honour",
		}, nil
	}

	gatewayRef := "MADA-" + strings.ToUpper(uuid.NewString()[:18])
	return &gatewayport.ProcessResult{
		Success:          true,
		GatewayReference: gatewayRef,
		Status:           entity.GatewayPending,
		Requires3DS:      true,
		RedirectURL:      fmt.Sprintf("%s/3ds/challenge/%s", a.baseURL, gatewayRef),
		NativeCode:       madaCodeHeldPending,
		Message:          "authentication required",
		Raw: map[string]any{
			"rrn":                gatewayRef,
			"merchant_reference": req.Reference,
			"response_code":      madaCodeHeldPending,
			"amount":             entity.FormatAmount(req.AmountInCents),
			"currency":           req.Currency,
		},
	}, nil
}

// RefundTransaction submits a refund to the scheme
func (a *MadaAdapter) RefundTransaction(ctx context.Context, gatewayRef string, amountInCents int64) (*gatewayport.RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &gatewayport.RefundResult{
		Success:         true,
		GatewayRefundID: "MADA-RF-" + strings.ToUpper(uuid.NewString()[:12]),
		Status:          entity.GatewayProcessing,
		Message:         "refund accepted",
	}, nil
}

// VerifyTransaction queries the scheme for a transaction's state
func (a *MadaAdapter) VerifyTransaction(ctx context.Context, gatewayRef string) (*gatewayport.VerifyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if gatewayRef == "" {
		return &gatewayport.VerifyResult{Found: false}, nil
	}
	return &gatewayport.VerifyResult{
		Found:      true,
		Status:     entity.GatewayProcessing,
		NativeCode: madaCodeHeldPending,
	}, nil
}

// HandleWebhook normalizes a mada settlement notification. Events carry the
// merchant reference plus the scheme's RRN and a numeric response code.
func (a *MadaAdapter) HandleWebhook(ctx context.Context, payload []byte, signature string) (*gatewayport.WebhookEvent, error) {
	if err := verifySignature(a.webhookSecret, payload, signature); err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: malformed mada webhook payload", errs.ErrInvalidRequest)
	}

	body := gjson.ParseBytes(payload)
	eventType := body.Get("event").String()
	data := body.Get("data")

	amountInCents, _ := entity.ParseAmount(data.Get("amount").String())
	event := &gatewayport.WebhookEvent{
		EventType:        eventType,
		Reference:        data.Get("merchant_reference").String(),
		GatewayReference: data.Get("rrn").String(),
		AmountInCents:    amountInCents,
		Currency:         data.Get("currency").String(),
		Metadata: map[string]string{
			"response_code": data.Get("response_code").String(),
		},
	}

	switch eventType {
	case "payment.settled":
		event.Status = madaStatus(data.Get("response_code").String())
		event.Processed = true
	case "payment.declined":
		event.Status = entity.GatewayDeclined
		event.Processed = true
	case "payment.reversed":
		event.Status = entity.GatewayCancelled
		event.Processed = true
	default:
		// Unknown event types are acknowledged but ignored
		event.Processed = false
	}
	return event, nil
}

// TokenizeCard exchanges card data for a scheme token
func (a *MadaAdapter) TokenizeCard(ctx context.Context, req gatewayport.TokenizeRequest) (*gatewayport.CardToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.CardNumber) < 13 {
		return nil, fmt.Errorf("%w: card number too short", errs.ErrInvalidRequest)
	}
	return &gatewayport.CardToken{
		Token:   "tok_mada_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Last4:   req.CardNumber[len(req.CardNumber)-4:],
		Brand:   "mada",
		Gateway: MadaGatewayName,
	}, nil
}

// Initiate3DSecure starts the ACS challenge flow
func (a *MadaAdapter) Initiate3DSecure(ctx context.Context, reference string, amountInCents int64, currency string) (*gatewayport.ThreeDSecureSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sessionID := "3DS-" + strings.ToUpper(uuid.NewString()[:12])
	return &gatewayport.ThreeDSecureSession{
		Applicable:  true,
		SessionID:   sessionID,
		RedirectURL: fmt.Sprintf("%s/3ds/challenge/%s?ref=%s", a.baseURL, sessionID, reference),
	}, nil
}

// madaStatus maps the scheme's numeric response codes onto the canonical set
func madaStatus(code string) entity.GatewayStatus {
	switch code {
	case madaCodeApproved:
		return entity.GatewayCompleted
	case madaCodeDeclined, madaCodeInvalidCard:
		return entity.GatewayDeclined
	case madaCodeReversed:
		return entity.GatewayCancelled
	case madaCodeHeldPending:
		return entity.GatewayProcessing
	default:
		return entity.GatewayFailed
	}
}
