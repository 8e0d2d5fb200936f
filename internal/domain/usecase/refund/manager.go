package refund

import (
	"context"
	"errors"
	"fmt"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
)

// Manager handles refunds and disputes against completed transactions. It is
// the only component that may move a transaction into DISPUTED.
type Manager struct {
	transactionRepo persistence.TransactionRepository
	refundRepo      persistence.RefundRepository
	disputeRepo     persistence.DisputeRepository
	trail           *auditUseCase.Trail
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
}

// NewManager creates a new refund/dispute manager
func NewManager(
	transactionRepo persistence.TransactionRepository,
	refundRepo persistence.RefundRepository,
	disputeRepo persistence.DisputeRepository,
	trail *auditUseCase.Trail,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Manager {
	return &Manager{
		transactionRepo: transactionRepo,
		refundRepo:      refundRepo,
		disputeRepo:     disputeRepo,
		trail:           trail,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// CreateRefund validates and opens a refund against a completed transaction.
// The cumulative amount of all active refunds never exceeds the transaction
// amount; breaking that is an invariant violation, not a soft failure.
// Settlement with the network is asynchronous, so an accepted refund advances
// to PROCESSING immediately and completes elsewhere.
func (m *Manager) CreateRefund(
	ctx context.Context,
	userID uint64,
	transactionID uint64,
	amount string,
	reason string,
	description string,
	info auditUseCase.RequestInfo,
) (*entity.Refund, error) {
	txn, err := m.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, errs.ErrNotOwner
	}
	if txn.Status != entity.StatusCompleted {
		return nil, fmt.Errorf("%w: transaction is %s", errs.ErrNotRefundable, txn.Status)
	}

	refund, err := entity.NewRefund(transactionID, userID, amount, reason, description, m.timeProvider)
	if err != nil {
		return nil, err
	}
	if refund.AmountInCents > txn.AmountInCents {
		return nil, &errs.RefundInvariantError{
			TransactionID:     transactionID,
			TransactionAmount: txn.Amount,
			AlreadyRefunded:   entity.FormatAmount(0),
			Requested:         refund.Amount,
		}
	}

	alreadyRefunded, err := m.refundRepo.CreateWithinCap(ctx, refund, txn.AmountInCents)
	if err != nil {
		if errors.Is(err, errs.ErrRefundExceedsAmount) {
			return nil, &errs.RefundInvariantError{
				TransactionID:     transactionID,
				TransactionAmount: txn.Amount,
				AlreadyRefunded:   entity.FormatAmount(alreadyRefunded),
				Requested:         refund.Amount,
			}
		}
		return nil, err
	}

	refund.MarkProcessing(m.timeProvider)
	if err := m.refundRepo.Update(ctx, refund); err != nil {
		return nil, err
	}

	m.trail.LogTransaction(ctx, txn.ID, entity.ActionRefunded, info, map[string]any{
		"refund_reference": refund.Reference,
		"amount":           refund.Amount,
		"reason":           refund.Reason,
		"total_refunded":   entity.FormatAmount(alreadyRefunded + refund.AmountInCents),
	})

	m.logger.Info("Refund accepted", map[string]any{
		"refund_reference": refund.Reference,
		"transaction_id":   transactionID,
		"user_id":          userID,
		"amount":           refund.Amount,
	})
	return refund, nil
}

// CreateDispute opens a dispute and forces the underlying transaction into
// DISPUTED regardless of its current status. This models a chargeback-style
// event, which can arrive at any point in the transaction's life.
func (m *Manager) CreateDispute(
	ctx context.Context,
	userID uint64,
	transactionID uint64,
	disputeType string,
	reason string,
	description string,
	evidence string,
	info auditUseCase.RequestInfo,
) (*entity.Dispute, error) {
	if !entity.IsValidDisputeType(disputeType) {
		return nil, fmt.Errorf("%w: unknown dispute type %q", errs.ErrInvalidRequest, disputeType)
	}

	txn, err := m.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, errs.ErrNotOwner
	}

	dispute := entity.NewDispute(transactionID, userID, disputeType, reason, description, evidence, m.timeProvider)
	if err := m.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, err
	}

	previousStatus := txn.Status
	txn.ForceDisputed(m.timeProvider)
	if err := m.transactionRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	m.trail.LogTransaction(ctx, txn.ID, entity.ActionDisputeOpened, info, map[string]any{
		"dispute_type":    dispute.Type,
		"reason":          dispute.Reason,
		"previous_status": string(previousStatus),
	})

	m.logger.Warn("Dispute opened", map[string]any{
		"transaction_id":  transactionID,
		"user_id":         userID,
		"dispute_type":    disputeType,
		"previous_status": string(previousStatus),
	})
	return dispute, nil
}

// ListRefunds returns the user's refunds newest-first
func (m *Manager) ListRefunds(ctx context.Context, userID uint64, limit int) ([]*entity.Refund, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return m.refundRepo.ListByUser(ctx, userID, limit)
}

// ListDisputes returns the user's disputes newest-first
func (m *Manager) ListDisputes(ctx context.Context, userID uint64, limit int) ([]*entity.Dispute, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return m.disputeRepo.ListByUser(ctx, userID, limit)
}
