package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	gatewayport "github.com/researchlink/payment-processor/internal/domain/port/gateway"
)

func TestSTCPayAdapter_ProcessPayment(t *testing.T) {
	adapter := NewSTCPayAdapter("")
	ctx := context.Background()

	t.Run("should open a redirect-based wallet payment", func(t *testing.T) {
		result, err := adapter.ProcessPayment(ctx, gatewayport.ProcessRequest{
			Reference:     "PAY-TEST-1",
			AmountInCents: 5000,
			Currency:      "SAR",
			Method:        entity.MethodWallet,
		})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.Requires3DS)
		assert.True(t, strings.HasPrefix(result.GatewayReference, "STC-"))
		assert.Contains(t, result.RedirectURL, result.GatewayReference)
		assert.Equal(t, entity.GatewayProcessing, result.Status)
	})

	t.Run("should decline card payments", func(t *testing.T) {
		result, err := adapter.ProcessPayment(ctx, gatewayport.ProcessRequest{
			Reference:     "PAY-TEST-2",
			AmountInCents: 5000,
			Currency:      "SAR",
			Method:        entity.MethodCard,
		})

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, entity.GatewayDeclined, result.Status)
	})
}

func TestSTCPayAdapter_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("should map a paid notification to COMPLETED", func(t *testing.T) {
		adapter := NewSTCPayAdapter("")
		payload := []byte(`{
			"MessageType": "PaymentNotification",
			"MerchantRefNum": "PAY-TEST-1",
			"RefNum": "STC-XYZ789",
			"PaymentStatus": "PAID",
			"Amount": "50.00",
			"Currency": "SAR"
		}`)

		event, err := adapter.HandleWebhook(ctx, payload, "")

		assert.NoError(t, err)
		assert.True(t, event.Processed)
		assert.Equal(t, entity.GatewayCompleted, event.Status)
		assert.Equal(t, "PAY-TEST-1", event.Reference)
		assert.Equal(t, int64(5000), event.AmountInCents)
	})

	t.Run("should map expiry to CANCELLED", func(t *testing.T) {
		adapter := NewSTCPayAdapter("")
		payload := []byte(`{"MessageType":"PaymentNotification","PaymentStatus":"EXPIRED"}`)

		event, err := adapter.HandleWebhook(ctx, payload, "")

		assert.NoError(t, err)
		assert.Equal(t, entity.GatewayCancelled, event.Status)
	})

	t.Run("should ignore non-payment message types", func(t *testing.T) {
		adapter := NewSTCPayAdapter("")
		payload := []byte(`{"MessageType":"KYCUpdate"}`)

		event, err := adapter.HandleWebhook(ctx, payload, "")

		assert.NoError(t, err)
		assert.False(t, event.Processed)
	})

	t.Run("should reject a bad signature", func(t *testing.T) {
		adapter := NewSTCPayAdapter("secret")

		_, err := adapter.HandleWebhook(ctx, []byte(`{}`), "wrong")
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestSTCPayAdapter_Capabilities(t *testing.T) {
	adapter := NewSTCPayAdapter("")
	ctx := context.Background()

	t.Run("should refuse card tokenization", func(t *testing.T) {
		_, err := adapter.TokenizeCard(ctx, gatewayport.TokenizeRequest{CardNumber: "4111111111111111"})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("should report 3DS as not applicable", func(t *testing.T) {
		session, err := adapter.Initiate3DSecure(ctx, "PAY-TEST-1", 5000, "SAR")
		assert.NoError(t, err)
		assert.False(t, session.Applicable)
	})

	t.Run("should advertise wallet-only SAR support", func(t *testing.T) {
		cfg := adapter.Config()
		assert.True(t, cfg.RequiresRedirect)
		assert.False(t, cfg.Supports3DSecure)
		assert.Equal(t, []string{"SAR"}, cfg.SupportedCurrencies)
		assert.Equal(t, []entity.PaymentMethod{entity.MethodWallet}, cfg.SupportedMethods)
	})
}

func TestSTCStatusMapping(t *testing.T) {
	assert.Equal(t, entity.GatewayCompleted, stcStatus("PAID"))
	assert.Equal(t, entity.GatewayProcessing, stcStatus("PENDING"))
	assert.Equal(t, entity.GatewayDeclined, stcStatus("DECLINED"))
	assert.Equal(t, entity.GatewayCancelled, stcStatus("CANCELLED"))
	assert.Equal(t, entity.GatewayCancelled, stcStatus("EXPIRED"))
	assert.Equal(t, entity.GatewayFailed, stcStatus("GARBAGE"))
}
