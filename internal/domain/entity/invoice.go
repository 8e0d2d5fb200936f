package entity

import (
	"fmt"
	"time"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
)

// InvoiceStatus defines the lifecycle states of an invoice
type InvoiceStatus string

// Invoice lifecycle states
const (
	InvoiceOpen      InvoiceStatus = "OPEN"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is a billable item a user settles through a payment transaction
type Invoice struct {
	ID            uint64
	Number        string
	UserID        uint64
	Amount        string
	AmountInCents int64
	Currency      string
	Description   string
	Status        InvoiceStatus
	TransactionID *uint64
	DueAt         *time.Time
	CreatedAt     time.Time
	PaidAt        *time.Time
}

// NewInvoice creates an open invoice
func NewInvoice(
	userID uint64,
	amount string,
	currency string,
	description string,
	dueAt *time.Time,
	timeProvider coreport.TimeProvider,
) (*Invoice, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if currency == "" {
		return nil, errs.ErrInvalidCurrency
	}

	amountInCents, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if amountInCents == 0 {
		return nil, fmt.Errorf("%w: invoice amount must be positive", errs.ErrInvalidAmount)
	}

	now := timeProvider.Now()
	return &Invoice{
		Number:        NewInvoiceNumber(now),
		UserID:        userID,
		Amount:        FormatAmount(amountInCents),
		AmountInCents: amountInCents,
		Currency:      currency,
		Description:   description,
		Status:        InvoiceOpen,
		DueAt:         dueAt,
		CreatedAt:     now,
	}, nil
}

// MarkPaid links the settling transaction and closes the invoice
func (i *Invoice) MarkPaid(transactionID uint64, timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	i.Status = InvoicePaid
	i.TransactionID = &transactionID
	i.PaidAt = &now
}
