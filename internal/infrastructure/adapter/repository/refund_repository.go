package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Refund statuses that count against a transaction's refundable amount
var activeRefundStatuses = []string{
	string(entity.RefundPending),
	string(entity.RefundProcessing),
	string(entity.RefundCompleted),
}

// RefundRepository implements RefundRepository interface using GORM
type RefundRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewRefundRepository creates a new RefundRepository instance
func NewRefundRepository(db *gorm.DB, logger coreport.Logger) *RefundRepository {
	return &RefundRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RefundRepository) entityToModel(refund *entity.Refund) model.Refund {
	return model.Refund{
		ID:            refund.ID,
		Reference:     refund.Reference,
		TransactionID: refund.TransactionID,
		UserID:        refund.UserID,
		Amount:        refund.Amount,
		AmountInCents: refund.AmountInCents,
		Reason:        refund.Reason,
		Description:   refund.Description,
		Status:        string(refund.Status),
		CreatedAt:     refund.CreatedAt,
		ProcessedAt:   refund.ProcessedAt,
	}
}

func (r *RefundRepository) modelToEntity(m *model.Refund) *entity.Refund {
	return &entity.Refund{
		ID:            m.ID,
		Reference:     m.Reference,
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		AmountInCents: m.AmountInCents,
		Reason:        m.Reason,
		Description:   m.Description,
		Status:        entity.RefundStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		ProcessedAt:   m.ProcessedAt,
	}
}

// CreateWithinCap inserts the refund inside one database transaction that
// first locks the parent transaction row and re-reads the active refund
// total. Two concurrent refunds against the same transaction serialize on
// the row lock, so their combined total can never exceed capInCents.
func (r *RefundRepository) CreateWithinCap(ctx context.Context, refund *entity.Refund, capInCents int64) (int64, error) {
	refundModel := r.entityToModel(refund)
	var alreadyRefunded int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent model.Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&parent, refund.TransactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrTransactionNotFound
			}
			return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
		}

		var sum *int64
		if err := tx.Model(&model.Refund{}).
			Select("SUM(amount_in_cents)").
			Where("transaction_id = ? AND status IN ?", refund.TransactionID, activeRefundStatuses).
			Scan(&sum).Error; err != nil {
			return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
		}
		if sum != nil {
			alreadyRefunded = *sum
		}

		if alreadyRefunded+refund.AmountInCents > capInCents {
			return errs.ErrRefundExceedsAmount
		}

		if err := tx.Create(&refundModel).Error; err != nil {
			return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrDatabaseConnection) {
			r.logger.Error("Failed to create refund", map[string]any{
				"reference":      refund.Reference,
				"transaction_id": refund.TransactionID,
				"error":          err.Error(),
			})
		}
		return alreadyRefunded, err
	}

	refund.ID = refundModel.ID

	r.logger.Info("Refund created successfully", map[string]any{
		"reference":      refund.Reference,
		"transaction_id": refund.TransactionID,
		"amount":         refund.Amount,
	})
	return alreadyRefunded, nil
}

// Update persists refund status changes
func (r *RefundRepository) Update(ctx context.Context, refund *entity.Refund) error {
	result := r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("id = ?", refund.ID).
		Updates(map[string]interface{}{
			"status":       string(refund.Status),
			"processed_at": refund.ProcessedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update refund", map[string]any{
			"reference": refund.Reference,
			"error":     result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrRefundNotFound
	}
	return nil
}

// GetByID retrieves a refund by id
func (r *RefundRepository) GetByID(ctx context.Context, id uint64) (*entity.Refund, error) {
	var refundModel model.Refund
	result := r.db.WithContext(ctx).First(&refundModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRefundNotFound
		}
		r.logger.Error("Failed to get refund", map[string]any{
			"id":    id,
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&refundModel), nil
}

// ListByUser returns the user's refunds newest-first
func (r *RefundRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Refund, error) {
	var models []model.Refund
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list refunds", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	refunds := make([]*entity.Refund, 0, len(models))
	for i := range models {
		refunds = append(refunds, r.modelToEntity(&models[i]))
	}
	return refunds, nil
}

// DisputeRepository implements DisputeRepository interface using GORM
type DisputeRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewDisputeRepository creates a new DisputeRepository instance
func NewDisputeRepository(db *gorm.DB, logger coreport.Logger) *DisputeRepository {
	return &DisputeRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new dispute and backfills the generated id
func (r *DisputeRepository) Create(ctx context.Context, dispute *entity.Dispute) error {
	disputeModel := model.Dispute{
		TransactionID: dispute.TransactionID,
		UserID:        dispute.UserID,
		Type:          dispute.Type,
		Reason:        dispute.Reason,
		Description:   dispute.Description,
		Evidence:      dispute.Evidence,
		Status:        string(dispute.Status),
		CreatedAt:     dispute.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&disputeModel)
	if result.Error != nil {
		r.logger.Error("Failed to create dispute", map[string]any{
			"transaction_id": dispute.TransactionID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	dispute.ID = disputeModel.ID

	r.logger.Info("Dispute created successfully", map[string]any{
		"dispute_id":     dispute.ID,
		"transaction_id": dispute.TransactionID,
		"type":           dispute.Type,
	})
	return nil
}

// ListByUser returns the user's disputes newest-first
func (r *DisputeRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Dispute, error) {
	var models []model.Dispute
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list disputes", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	disputes := make([]*entity.Dispute, 0, len(models))
	for i := range models {
		m := models[i]
		disputes = append(disputes, &entity.Dispute{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			UserID:        m.UserID,
			Type:          m.Type,
			Reason:        m.Reason,
			Description:   m.Description,
			Evidence:      m.Evidence,
			Status:        entity.DisputeStatus(m.Status),
			CreatedAt:     m.CreatedAt,
		})
	}
	return disputes, nil
}
