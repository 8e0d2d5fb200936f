package dto

import (
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// AuditEntryResponse represents an audit log entry in API responses.
// PerformedBy is null for system-initiated actions such as webhooks.
type AuditEntryResponse struct {
	ID            uint64    `json:"id"`
	TransactionID uint64    `json:"transactionId"`
	Action        string    `json:"action"`
	PerformedBy   *uint64   `json:"performedBy"`
	Details       string    `json:"details,omitempty"`
	IPAddress     string    `json:"ipAddress,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewAuditEntryResponse maps an audit entry to its API representation
func NewAuditEntryResponse(entry *entity.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:            entry.ID,
		TransactionID: entry.TransactionID,
		Action:        entry.Action,
		PerformedBy:   entry.PerformedBy,
		Details:       entry.Details,
		IPAddress:     entry.IPAddress,
		CreatedAt:     entry.CreatedAt,
	}
}

// WebhookAck is the body returned for every accepted webhook delivery
type WebhookAck struct {
	Received bool   `json:"received"`
	Note     string `json:"note,omitempty"`
}
