package persistence

import (
	"context"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// RefundRepository defines persistence for refunds
type RefundRepository interface {
	// CreateWithinCap saves a new refund only while the minor-unit total of
	// all active refunds against the transaction, including this one, stays
	// within capInCents. The check and the insert run in one database
	// transaction with the parent transaction row locked, so concurrent
	// refunds cannot jointly exceed the cap. Returns the active total prior
	// to this refund; on a breach the error is ErrRefundExceedsAmount and
	// nothing is written.
	CreateWithinCap(ctx context.Context, refund *entity.Refund, capInCents int64) (int64, error)

	// Update persists refund status changes
	Update(ctx context.Context, refund *entity.Refund) error

	// GetByID retrieves a refund by id
	GetByID(ctx context.Context, id uint64) (*entity.Refund, error)

	// ListByUser returns the user's refunds newest-first
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Refund, error)
}

// DisputeRepository defines persistence for disputes
type DisputeRepository interface {
	// Create saves a new dispute
	Create(ctx context.Context, dispute *entity.Dispute) error

	// ListByUser returns the user's disputes newest-first
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Dispute, error)
}
