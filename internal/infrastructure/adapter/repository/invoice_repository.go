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
)

// InvoiceRepository implements InvoiceRepository interface using GORM
type InvoiceRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewInvoiceRepository creates a new InvoiceRepository instance
func NewInvoiceRepository(db *gorm.DB, logger coreport.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InvoiceRepository) modelToEntity(m *model.Invoice) *entity.Invoice {
	return &entity.Invoice{
		ID:            m.ID,
		Number:        m.Number,
		UserID:        m.UserID,
		Amount:        m.Amount,
		AmountInCents: m.AmountInCents,
		Currency:      m.Currency,
		Description:   m.Description,
		Status:        entity.InvoiceStatus(m.Status),
		TransactionID: m.TransactionID,
		DueAt:         m.DueAt,
		CreatedAt:     m.CreatedAt,
		PaidAt:        m.PaidAt,
	}
}

// Create saves a new invoice and backfills the generated id
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	invoiceModel := model.Invoice{
		Number:        invoice.Number,
		UserID:        invoice.UserID,
		Amount:        invoice.Amount,
		AmountInCents: invoice.AmountInCents,
		Currency:      invoice.Currency,
		Description:   invoice.Description,
		Status:        string(invoice.Status),
		TransactionID: invoice.TransactionID,
		DueAt:         invoice.DueAt,
		CreatedAt:     invoice.CreatedAt,
		PaidAt:        invoice.PaidAt,
	}

	result := r.db.WithContext(ctx).Create(&invoiceModel)
	if result.Error != nil {
		r.logger.Error("Failed to create invoice", map[string]any{
			"number":  invoice.Number,
			"user_id": invoice.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	invoice.ID = invoiceModel.ID

	r.logger.Info("Invoice created successfully", map[string]any{
		"invoice_id": invoice.ID,
		"number":     invoice.Number,
		"amount":     invoice.Amount,
	})
	return nil
}

// Update persists invoice status and payment linkage
func (r *InvoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	result := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"status":         string(invoice.Status),
			"transaction_id": invoice.TransactionID,
			"paid_at":        invoice.PaidAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update invoice", map[string]any{
			"invoice_id": invoice.ID,
			"error":      result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrInvoiceNotFound
	}
	return nil
}

// GetByID retrieves an invoice by id
func (r *InvoiceRepository) GetByID(ctx context.Context, id uint64) (*entity.Invoice, error) {
	var invoiceModel model.Invoice
	result := r.db.WithContext(ctx).First(&invoiceModel, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvoiceNotFound
		}
		r.logger.Error("Failed to get invoice", map[string]any{
			"invoice_id": id,
			"error":      result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&invoiceModel), nil
}

// ListByUser returns the user's invoices newest-first
func (r *InvoiceRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Invoice, error) {
	var models []model.Invoice
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list invoices", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	invoices := make([]*entity.Invoice, 0, len(models))
	for i := range models {
		invoices = append(invoices, r.modelToEntity(&models[i]))
	}
	return invoices, nil
}
