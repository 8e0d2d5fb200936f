package entity

import (
	"fmt"
	"time"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
)

// RefundStatus defines the lifecycle states of a refund
type RefundStatus string

// Refund lifecycle states
const (
	RefundPending    RefundStatus = "PENDING"
	RefundProcessing RefundStatus = "PROCESSING"
	RefundCompleted  RefundStatus = "COMPLETED"
	RefundFailed     RefundStatus = "FAILED"
)

// RefundReason codes accepted on refund requests
const (
	RefundReasonRequestedByUser = "requested_by_user"
	RefundReasonDuplicate       = "duplicate"
	RefundReasonServiceIssue    = "service_issue"
	RefundReasonFraudulent      = "fraudulent"
	RefundReasonOther           = "other"
)

// Refund is a bounded partial or full reversal of a completed transaction.
// The sum of all active refunds against one transaction never exceeds the
// transaction amount; the manager enforces that before creation.
type Refund struct {
	ID            uint64
	Reference     string
	TransactionID uint64
	UserID        uint64
	Amount        string
	AmountInCents int64
	Reason        string
	Description   string
	Status        RefundStatus
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// NewRefund creates a pending refund against a transaction
func NewRefund(
	transactionID uint64,
	userID uint64,
	amount string,
	reason string,
	description string,
	timeProvider coreport.TimeProvider,
) (*Refund, error) {
	if transactionID == 0 {
		return nil, errs.ErrTransactionNotFound
	}
	if !IsValidRefundReason(reason) {
		return nil, fmt.Errorf("%w: unknown refund reason %q", errs.ErrInvalidRequest, reason)
	}

	amountInCents, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if amountInCents == 0 {
		return nil, fmt.Errorf("%w: refund amount must be positive", errs.ErrInvalidAmount)
	}

	now := timeProvider.Now()
	return &Refund{
		Reference:     NewRefundReference(now),
		TransactionID: transactionID,
		UserID:        userID,
		Amount:        FormatAmount(amountInCents),
		AmountInCents: amountInCents,
		Reason:        reason,
		Description:   description,
		Status:        RefundPending,
		CreatedAt:     now,
	}, nil
}

// MarkProcessing advances the refund once it has been accepted locally.
// Settlement with the network is asynchronous and finishes elsewhere.
func (r *Refund) MarkProcessing(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	r.Status = RefundProcessing
	r.ProcessedAt = &now
}

// IsActive reports whether the refund counts against the transaction's
// refundable amount.
func (r *Refund) IsActive() bool {
	return r.Status == RefundPending || r.Status == RefundProcessing || r.Status == RefundCompleted
}

// IsValidRefundReason validates a refund reason code
func IsValidRefundReason(reason string) bool {
	switch reason {
	case RefundReasonRequestedByUser, RefundReasonDuplicate, RefundReasonServiceIssue,
		RefundReasonFraudulent, RefundReasonOther:
		return true
	}
	return false
}
