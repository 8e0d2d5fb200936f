package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry(
		NewMadaAdapter(""),
		NewSTCPayAdapter(""),
		NewHyperPayAdapter(""),
	)

	t.Run("should resolve adapters by name", func(t *testing.T) {
		adapter, err := registry.Get("mada")
		assert.NoError(t, err)
		assert.Equal(t, MadaGatewayName, adapter.Name())
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := registry.Get("paypal")
		assert.ErrorIs(t, err, errs.ErrGatewayNotFound)
	})

	t.Run("should enumerate adapters in stable name order", func(t *testing.T) {
		adapters := registry.All()
		assert.Len(t, adapters, 3)

		names := make([]string, 0, len(adapters))
		for _, a := range adapters {
			names = append(names, a.Name())
		}
		assert.Equal(t, []string{"hyperpay", "mada", "stcpay"}, names)
	})
}
