package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// AuditRepository implements AuditRepository interface using GORM. The table
// is append-only; no update or delete paths exist.
type AuditRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAuditRepository creates a new AuditRepository instance
func NewAuditRepository(db *gorm.DB, logger coreport.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditRepository) modelToEntity(m *model.AuditEntry) *entity.AuditEntry {
	return &entity.AuditEntry{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Action:        m.Action,
		PerformedBy:   m.PerformedBy,
		Details:       m.Details,
		IPAddress:     m.IPAddress,
		UserAgent:     m.UserAgent,
		CreatedAt:     m.CreatedAt,
	}
}

// Create appends an audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *entity.AuditEntry) error {
	entryModel := model.AuditEntry{
		TransactionID: entry.TransactionID,
		Action:        entry.Action,
		PerformedBy:   entry.PerformedBy,
		Details:       entry.Details,
		IPAddress:     entry.IPAddress,
		UserAgent:     entry.UserAgent,
		CreatedAt:     entry.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&entryModel)
	if result.Error != nil {
		r.logger.Error("Failed to append audit entry", map[string]any{
			"transaction_id": entry.TransactionID,
			"action":         entry.Action,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	entry.ID = entryModel.ID
	return nil
}

// ListByTransaction returns all entries for a transaction newest-first
func (r *AuditRepository) ListByTransaction(ctx context.Context, transactionID uint64) ([]*entity.AuditEntry, error) {
	var models []model.AuditEntry
	result := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id DESC").
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list audit entries", map[string]any{
			"transaction_id": transactionID,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	entries := make([]*entity.AuditEntry, 0, len(models))
	for i := range models {
		entries = append(entries, r.modelToEntity(&models[i]))
	}
	return entries, nil
}

// List returns entries matching the filter newest-first
func (r *AuditRepository) List(ctx context.Context, filter persistence.AuditFilter) ([]*entity.AuditEntry, error) {
	query := r.db.WithContext(ctx).Model(&model.AuditEntry{}).Order("id DESC")
	if filter.PerformedBy != nil {
		query = query.Where("performed_by = ?", *filter.PerformedBy)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var models []model.AuditEntry
	if err := query.Find(&models).Error; err != nil {
		r.logger.Error("Failed to query audit log", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	entries := make([]*entity.AuditEntry, 0, len(models))
	for i := range models {
		entries = append(entries, r.modelToEntity(&models[i]))
	}
	return entries, nil
}

// FraudAlertRepository implements FraudAlertRepository interface using GORM
type FraudAlertRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewFraudAlertRepository creates a new FraudAlertRepository instance
func NewFraudAlertRepository(db *gorm.DB, logger coreport.Logger) *FraudAlertRepository {
	return &FraudAlertRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new alert
func (r *FraudAlertRepository) Create(ctx context.Context, alert *entity.FraudAlert) error {
	alertModel := model.FraudAlert{
		TransactionID: alert.TransactionID,
		UserID:        alert.UserID,
		Severity:      string(alert.Severity),
		Score:         alert.Score,
		Description:   alert.Description,
		Status:        string(alert.Status),
		CreatedAt:     alert.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&alertModel)
	if result.Error != nil {
		r.logger.Error("Failed to create fraud alert", map[string]any{
			"transaction_id": alert.TransactionID,
			"user_id":        alert.UserID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	alert.ID = alertModel.ID

	r.logger.Info("Fraud alert created", map[string]any{
		"alert_id":       alert.ID,
		"transaction_id": alert.TransactionID,
		"severity":       alert.Severity,
		"score":          alert.Score,
	})
	return nil
}

// CountActiveByUserSince counts unresolved alerts for the user in the window
func (r *FraudAlertRepository) CountActiveByUserSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.FraudAlert{}).
		Where("user_id = ? AND status = ? AND created_at >= ?", userID, string(entity.AlertActive), since).
		Count(&count)
	if result.Error != nil {
		r.logger.Error("Failed to count fraud alerts", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count, nil
}

// ListByUser returns the user's alerts newest-first
func (r *FraudAlertRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.FraudAlert, error) {
	var models []model.FraudAlert
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list fraud alerts", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	alerts := make([]*entity.FraudAlert, 0, len(models))
	for i := range models {
		m := models[i]
		alerts = append(alerts, &entity.FraudAlert{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			UserID:        m.UserID,
			Severity:      entity.FraudSeverity(m.Severity),
			Score:         m.Score,
			Description:   m.Description,
			Status:        entity.FraudAlertStatus(m.Status),
			CreatedAt:     m.CreatedAt,
		})
	}
	return alerts, nil
}
