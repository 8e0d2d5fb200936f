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

func TestHyperPayAdapter_ProcessPayment(t *testing.T) {
	adapter := NewHyperPayAdapter("")
	ctx := context.Background()

	t.Run("should require 3DS for card payments without a token", func(t *testing.T) {
		result, err := adapter.ProcessPayment(ctx, gatewayport.ProcessRequest{
			Reference:     "PAY-TEST-1",
			AmountInCents: 15000,
			Currency:      "USD",
			Method:        entity.MethodCard,
		})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.Requires3DS)
		assert.NotEmpty(t, result.RedirectURL)
		assert.True(t, strings.HasPrefix(result.GatewayReference, "HP-"))
	})

	t.Run("should skip 3DS for tokenized cards", func(t *testing.T) {
		result, err := adapter.ProcessPayment(ctx, gatewayport.ProcessRequest{
			Reference:     "PAY-TEST-2",
			AmountInCents: 15000,
			Currency:      "SAR",
			Method:        entity.MethodCard,
			CardToken:     "tok_hp_abc",
		})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.Requires3DS)
		assert.Empty(t, result.RedirectURL)
	})

	t.Run("should skip 3DS for bank transfers", func(t *testing.T) {
		result, err := adapter.ProcessPayment(ctx, gatewayport.ProcessRequest{
			Reference:     "PAY-TEST-3",
			AmountInCents: 15000,
			Currency:      "EUR",
			Method:        entity.MethodBank,
		})

		assert.NoError(t, err)
		assert.False(t, result.Requires3DS)
	})

	t.Run("should honor the decline simulation flag", func(t *testing.T) {
		result, err := adapter.ProcessPayment(ctx, gatewayport.ProcessRequest{
			Reference: "PAY-TEST-4",
			Method:    entity.MethodCard,
			Metadata:  map[string]string{"simulate": "decline"},
		})

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "D", result.NativeCode)
	})

	t.Run("should surface simulated transport errors", func(t *testing.T) {
		_, err := adapter.ProcessPayment(ctx, gatewayport.ProcessRequest{
			Reference: "PAY-TEST-5",
			Method:    entity.MethodCard,
			Metadata:  map[string]string{"simulate": "error"},
		})

		assert.ErrorIs(t, err, errs.ErrGatewayFailure)
	})
}

func TestHyperPayAdapter_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("should map an approved payment event to COMPLETED", func(t *testing.T) {
		adapter := NewHyperPayAdapter("")
		payload := []byte(`{
			"type": "PAYMENT",
			"payload": {
				"id": "HP-ABC123",
				"merchantTransactionId": "PAY-TEST-1",
				"result": {"code": "A"},
				"amount": "150.00",
				"currency": "USD"
			}
		}`)

		event, err := adapter.HandleWebhook(ctx, payload, "")

		assert.NoError(t, err)
		assert.True(t, event.Processed)
		assert.Equal(t, entity.GatewayCompleted, event.Status)
		assert.Equal(t, "PAY-TEST-1", event.Reference)
		assert.Equal(t, "HP-ABC123", event.GatewayReference)
		assert.Equal(t, "USD", event.Currency)
	})

	t.Run("should ignore registration events", func(t *testing.T) {
		adapter := NewHyperPayAdapter("")
		payload := []byte(`{"type":"REGISTRATION","payload":{"id":"HP-REG-1"}}`)

		event, err := adapter.HandleWebhook(ctx, payload, "")

		assert.NoError(t, err)
		assert.False(t, event.Processed)
	})

	t.Run("should verify signed payloads", func(t *testing.T) {
		adapter := NewHyperPayAdapter("hpsecret")
		payload := []byte(`{"type":"PAYMENT","payload":{"result":{"code":"A"}}}`)

		_, err := adapter.HandleWebhook(ctx, payload, "bogus")
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		event, err := adapter.HandleWebhook(ctx, payload, SignPayload("hpsecret", payload))
		assert.NoError(t, err)
		assert.True(t, event.Processed)
	})
}

func TestHyperPayAdapter_TokenizeCard(t *testing.T) {
	adapter := NewHyperPayAdapter("")
	ctx := context.Background()

	t.Run("should guess the brand from the leading digit", func(t *testing.T) {
		token, err := adapter.TokenizeCard(ctx, gatewayport.TokenizeRequest{CardNumber: "4111111111111111"})
		assert.NoError(t, err)
		assert.Equal(t, "visa", token.Brand)

		token, err = adapter.TokenizeCard(ctx, gatewayport.TokenizeRequest{CardNumber: "5500000000000004"})
		assert.NoError(t, err)
		assert.Equal(t, "mastercard", token.Brand)
	})
}

func TestHyperStatusMapping(t *testing.T) {
	assert.Equal(t, entity.GatewayCompleted, hyperStatus("A"))
	assert.Equal(t, entity.GatewayDeclined, hyperStatus("D"))
	assert.Equal(t, entity.GatewayProcessing, hyperStatus("P"))
	assert.Equal(t, entity.GatewayFailed, hyperStatus("R"))
	assert.Equal(t, entity.GatewayFailed, hyperStatus("Z"))
}
