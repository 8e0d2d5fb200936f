package dto

import (
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// RefundRequest represents the API request for refunding a transaction
type RefundRequest struct {
	TransactionID uint64 `json:"transactionId" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
	Description   string `json:"description"`
}

// RefundResponse represents a refund in API responses
type RefundResponse struct {
	ID            uint64     `json:"id"`
	Reference     string     `json:"reference"`
	TransactionID uint64     `json:"transactionId"`
	Amount        string     `json:"amount"`
	Reason        string     `json:"reason"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
}

// NewRefundResponse maps a refund entity to its API representation
func NewRefundResponse(refund *entity.Refund) RefundResponse {
	return RefundResponse{
		ID:            refund.ID,
		Reference:     refund.Reference,
		TransactionID: refund.TransactionID,
		Amount:        refund.Amount,
		Reason:        refund.Reason,
		Description:   refund.Description,
		Status:        string(refund.Status),
		CreatedAt:     refund.CreatedAt,
		ProcessedAt:   refund.ProcessedAt,
	}
}

// DisputeRequest represents the API request for opening a dispute
type DisputeRequest struct {
	TransactionID uint64 `json:"transactionId" binding:"required"`
	Type          string `json:"type" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
	Description   string `json:"description"`
	Evidence      string `json:"evidence"`
}

// DisputeResponse represents a dispute in API responses
type DisputeResponse struct {
	ID            uint64    `json:"id"`
	TransactionID uint64    `json:"transactionId"`
	Type          string    `json:"type"`
	Reason        string    `json:"reason"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewDisputeResponse maps a dispute entity to its API representation
func NewDisputeResponse(dispute *entity.Dispute) DisputeResponse {
	return DisputeResponse{
		ID:            dispute.ID,
		TransactionID: dispute.TransactionID,
		Type:          dispute.Type,
		Reason:        dispute.Reason,
		Description:   dispute.Description,
		Status:        string(dispute.Status),
		CreatedAt:     dispute.CreatedAt,
	}
}
