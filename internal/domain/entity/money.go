package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
)

// Monetary amounts travel through the API as strings and are stored in minor
// units (halalas/cents) to avoid floating point precision issues.

// MaxDecimalPlaces is the maximum number of decimal places accepted for amounts
const MaxDecimalPlaces = 2

// ParseAmount validates a string amount and converts it to minor units.
// Accepted forms: "150", "150.5", "150.50". Negative values are rejected.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}
	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	var minorUnits string
	if len(parts) == 1 {
		minorUnits = parts[0] + "00"
	} else {
		switch len(parts[1]) {
		case 0:
			minorUnits = parts[0] + "00"
		case 1:
			minorUnits = parts[0] + parts[1] + "0"
		case 2:
			minorUnits = parts[0] + parts[1]
		default:
			return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
		}
	}

	value, err := strconv.ParseInt(minorUnits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}
	return value, nil
}

// FormatAmount converts minor units back to a decimal string with exactly two
// decimal places: 1015 -> "10.15", 50 -> "0.50".
func FormatAmount(amountInCents int64) string {
	negative := amountInCents < 0
	if negative {
		amountInCents = -amountInCents
	}

	digits := strconv.FormatInt(amountInCents, 10)
	for len(digits) < 3 {
		digits = "0" + digits
	}

	split := len(digits) - 2
	formatted := digits[:split] + "." + digits[split:]
	if negative {
		return "-" + formatted
	}
	return formatted
}
