package entity

// GatewayStatus is the canonical status vocabulary every adapter maps its
// network-native codes into.
type GatewayStatus string

// Canonical gateway statuses
const (
	GatewayCompleted  GatewayStatus = "COMPLETED"
	GatewayDeclined   GatewayStatus = "DECLINED"
	GatewayFailed     GatewayStatus = "FAILED"
	GatewayPending    GatewayStatus = "PENDING"
	GatewayProcessing GatewayStatus = "PROCESSING"
	GatewayCancelled  GatewayStatus = "CANCELLED"
)

// TransactionStatusFor maps a canonical gateway status onto the transaction
// lifecycle. Declines and cancellations are failures from the platform's
// point of view; the native code survives in the gateway response payload.
func TransactionStatusFor(status GatewayStatus) (TransactionStatus, bool) {
	switch status {
	case GatewayCompleted:
		return StatusCompleted, true
	case GatewayDeclined, GatewayFailed, GatewayCancelled:
		return StatusFailed, true
	case GatewayProcessing:
		return StatusProcessing, true
	case GatewayPending:
		return StatusPending, true
	}
	return "", false
}

// GatewayConfig is static per-gateway metadata, read-only at runtime.
// Changing it means reconfiguring the deployment, not writing to storage.
type GatewayConfig struct {
	Name                 string
	DisplayName          string
	Active               bool
	SupportedCurrencies  []string
	SupportedMethods     []PaymentMethod
	MinAmountInCents     int64
	MaxAmountInCents     int64
	FeePercent           float64
	Supports3DSecure     bool
	SupportsTokenization bool
	SupportsRecurring    bool
	RequiresRedirect     bool
}

// SupportsCurrency reports whether the gateway accepts the currency
func (c *GatewayConfig) SupportsCurrency(currency string) bool {
	for _, cur := range c.SupportedCurrencies {
		if cur == currency {
			return true
		}
	}
	return false
}

// SupportsMethod reports whether the gateway accepts the payment method
func (c *GatewayConfig) SupportsMethod(method PaymentMethod) bool {
	for _, m := range c.SupportedMethods {
		if m == method {
			return true
		}
	}
	return false
}

// AmountWithinBounds checks the configured min/max amount limits
func (c *GatewayConfig) AmountWithinBounds(amountInCents int64) bool {
	if amountInCents < c.MinAmountInCents {
		return false
	}
	if c.MaxAmountInCents > 0 && amountInCents > c.MaxAmountInCents {
		return false
	}
	return true
}

// FeeInCents computes the gateway fee for an amount, rounded down
func (c *GatewayConfig) FeeInCents(amountInCents int64) int64 {
	return int64(float64(amountInCents) * c.FeePercent / 100.0)
}
