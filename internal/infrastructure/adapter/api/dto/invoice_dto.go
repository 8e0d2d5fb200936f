package dto

import (
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// InvoiceRequest represents the API request for creating an invoice
type InvoiceRequest struct {
	Amount      string     `json:"amount" binding:"required"`
	Currency    string     `json:"currency"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"dueAt"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uint64     `json:"id"`
	Number        string     `json:"number"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	TransactionID *uint64    `json:"transactionId,omitempty"`
	DueAt         *time.Time `json:"dueAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// NewInvoiceResponse maps an invoice entity to its API representation
func NewInvoiceResponse(invoice *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            invoice.ID,
		Number:        invoice.Number,
		Amount:        invoice.Amount,
		Currency:      invoice.Currency,
		Description:   invoice.Description,
		Status:        string(invoice.Status),
		TransactionID: invoice.TransactionID,
		DueAt:         invoice.DueAt,
		CreatedAt:     invoice.CreatedAt,
		PaidAt:        invoice.PaidAt,
	}
}
