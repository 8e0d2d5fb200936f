package persistence

import (
	"context"
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// AuditFilter narrows audit log queries. Every field is optional and filters
// combine with AND.
type AuditFilter struct {
	PerformedBy *uint64
	Action      string
	From        *time.Time
	To          *time.Time
	Limit       int
}

// AuditRepository defines persistence for the append-only audit log.
// Entries are never updated or deleted.
type AuditRepository interface {
	// Create appends an audit entry
	Create(ctx context.Context, entry *entity.AuditEntry) error

	// ListByTransaction returns all entries for a transaction newest-first
	ListByTransaction(ctx context.Context, transactionID uint64) ([]*entity.AuditEntry, error)

	// List returns entries matching the filter newest-first
	List(ctx context.Context, filter AuditFilter) ([]*entity.AuditEntry, error)
}

// FraudAlertRepository defines persistence for fraud alerts
type FraudAlertRepository interface {
	// Create saves a new alert
	Create(ctx context.Context, alert *entity.FraudAlert) error

	// CountActiveByUserSince counts the user's unresolved alerts created at or
	// after the given instant. Feeds the fraud screen's repeat-offender signal.
	CountActiveByUserSince(ctx context.Context, userID uint64, since time.Time) (int64, error)

	// ListByUser returns the user's alerts newest-first
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.FraudAlert, error)
}
