package audit

import (
	"context"
	"encoding/json"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
)

// Trail writes and queries the append-only audit log. Writes are best-effort:
// a failed audit write is logged but never fails the caller's primary
// operation.
type Trail struct {
	auditRepo    persistence.AuditRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTrail creates a new audit trail
func NewTrail(
	auditRepo persistence.AuditRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Trail {
	return &Trail{
		auditRepo:    auditRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// RequestInfo carries the acting client's context, when known
type RequestInfo struct {
	PerformedBy *uint64
	IPAddress   string
	UserAgent   string
}

// System is the RequestInfo for system-initiated actions such as webhooks
var System = RequestInfo{}

// LogTransaction appends one audit entry for a transaction. Failures are
// swallowed after logging so that audit problems never mask the outcome of
// the operation being audited.
func (t *Trail) LogTransaction(
	ctx context.Context,
	transactionID uint64,
	action string,
	info RequestInfo,
	details map[string]any,
) {
	var detailsJSON string
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			t.logger.Warn("Failed to encode audit details", map[string]any{
				"transaction_id": transactionID,
				"action":         action,
				"error":          err.Error(),
			})
		} else {
			detailsJSON = string(raw)
		}
	}

	entry := &entity.AuditEntry{
		TransactionID: transactionID,
		Action:        action,
		PerformedBy:   info.PerformedBy,
		Details:       detailsJSON,
		IPAddress:     info.IPAddress,
		UserAgent:     info.UserAgent,
		CreatedAt:     t.timeProvider.Now(),
	}

	if err := t.auditRepo.Create(ctx, entry); err != nil {
		t.logger.Warn("Failed to write audit entry", map[string]any{
			"transaction_id": transactionID,
			"action":         action,
			"error":          err.Error(),
		})
	}
}

// GetTransactionAudit returns all entries for a transaction newest-first
func (t *Trail) GetTransactionAudit(ctx context.Context, transactionID uint64) ([]*entity.AuditEntry, error) {
	return t.auditRepo.ListByTransaction(ctx, transactionID)
}

// GetAuditLogs returns entries matching the filter newest-first. Filters are
// independently optional and combine with AND.
func (t *Trail) GetAuditLogs(ctx context.Context, filter persistence.AuditFilter) ([]*entity.AuditEntry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return t.auditRepo.List(ctx, filter)
}
