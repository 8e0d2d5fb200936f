package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewPaymentReference mints a globally unique human-readable transaction
// reference: a timestamp for operators plus a UUID-derived suffix so that
// collision probability is negligible rather than merely unlikely.
func NewPaymentReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("PAY-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

// NewRefundReference mints a reference for refund records
func NewRefundReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("REF-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

// NewInvoiceNumber mints a human-readable invoice number
func NewInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("200601"), suffix)
}
