package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:               transaction.ID,
		Reference:        transaction.Reference,
		UserID:           transaction.UserID,
		Gateway:          transaction.Gateway,
		GatewayReference: transaction.GatewayReference,
		Amount:           transaction.Amount,
		AmountInCents:    transaction.AmountInCents,
		Currency:         transaction.Currency,
		PaymentMethod:    string(transaction.PaymentMethod),
		PaymentType:      string(transaction.PaymentType),
		Description:      transaction.Description,
		Status:           string(transaction.Status),
		FraudScore:       transaction.FraudScore,
		GatewayResponse:  transaction.GatewayResponse,
		CompletedAt:      transaction.CompletedAt,
		FailedAt:         transaction.FailedAt,
		CreatedAt:        transaction.CreatedAt,
		UpdatedAt:        transaction.UpdatedAt,
		InvoiceID:        transaction.InvoiceID,
		SubscriptionID:   transaction.SubscriptionID,
		WalletID:         transaction.WalletID,
		ProjectID:        transaction.ProjectID,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:               m.ID,
		Reference:        m.Reference,
		UserID:           m.UserID,
		Gateway:          m.Gateway,
		GatewayReference: m.GatewayReference,
		Amount:           m.Amount,
		AmountInCents:    m.AmountInCents,
		Currency:         m.Currency,
		PaymentMethod:    entity.PaymentMethod(m.PaymentMethod),
		PaymentType:      entity.PaymentType(m.PaymentType),
		Description:      m.Description,
		Status:           entity.TransactionStatus(m.Status),
		FraudScore:       m.FraudScore,
		GatewayResponse:  m.GatewayResponse,
		CompletedAt:      m.CompletedAt,
		FailedAt:         m.FailedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		InvoiceID:        m.InvoiceID,
		SubscriptionID:   m.SubscriptionID,
		WalletID:         m.WalletID,
		ProjectID:        m.ProjectID,
	}
}

// Create saves a new transaction and backfills the generated id
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"reference": transaction.Reference,
		"user_id":   transaction.UserID,
		"gateway":   transaction.Gateway,
	})

	transactionModel := r.entityToModel(transaction)

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsConstraintError(result.Error) && !r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Transaction references missing user", map[string]any{
				"reference": transaction.Reference,
				"user_id":   transaction.UserID,
			})
			return errs.ErrUserNotFound
		}
		r.logger.Error("Failed to create transaction", map[string]any{
			"reference": transaction.Reference,
			"user_id":   transaction.UserID,
			"error":     result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transaction.ID = transactionModel.ID

	r.logger.Info("Transaction created successfully", map[string]any{
		"reference": transaction.Reference,
		"user_id":   transaction.UserID,
	})
	return nil
}

// Update persists mutable transaction fields. Amount and currency are
// immutable after creation and deliberately excluded from the update set.
func (r *TransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Updating transaction", map[string]any{
		"reference": transaction.Reference,
		"status":    transaction.Status,
	})

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"status":            string(transaction.Status),
			"gateway_reference": transaction.GatewayReference,
			"gateway_response":  transaction.GatewayResponse,
			"fraud_score":       transaction.FraudScore,
			"completed_at":      transaction.CompletedAt,
			"failed_at":         transaction.FailedAt,
			"updated_at":        transaction.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Error("Failed to update transaction", map[string]any{
			"reference": transaction.Reference,
			"error":     result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Transaction not found during update", map[string]any{
			"reference": transaction.Reference,
		})
		return errs.ErrTransactionNotFound
	}

	return nil
}

// GetByID retrieves a transaction by its internal id
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).First(&transactionModel, id)
	if result.Error != nil {
		return nil, r.wrapLookupError(result.Error, map[string]any{"id": id})
	}
	return r.modelToEntity(&transactionModel), nil
}

// GetByReference retrieves a transaction by its internal reference
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&transactionModel)
	if result.Error != nil {
		return nil, r.wrapLookupError(result.Error, map[string]any{"reference": reference})
	}
	return r.modelToEntity(&transactionModel), nil
}

// FindByAnyReference locates a transaction by the internal reference or the
// gateway-assigned one, whichever the caller happens to hold.
func (r *TransactionRepository) FindByAnyReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("reference = ? OR gateway_reference = ?", reference, reference).
		First(&transactionModel)
	if result.Error != nil {
		return nil, r.wrapLookupError(result.Error, map[string]any{"reference": reference})
	}
	return r.modelToEntity(&transactionModel), nil
}

// ListByUser returns the user's transactions newest-first after the cursor
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var models []model.Transaction
	if err := query.Find(&models).Error; err != nil {
		r.logger.Error("Failed to list transactions", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions, nil
}

// ListByWallet returns a wallet's ledger transactions newest-first after the cursor
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID uint64, cursor uint64, limit int) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("id DESC").
		Limit(limit)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var models []model.Transaction
	if err := query.Find(&models).Error; err != nil {
		r.logger.Error("Failed to list wallet transactions", map[string]any{
			"wallet_id": walletID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions, nil
}

// CountByUserSince counts the user's transactions created at or after since
func (r *TransactionRepository) CountByUserSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count)
	if result.Error != nil {
		r.logger.Error("Failed to count transactions", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count, nil
}

// AverageAmountSince returns the mean amount in minor units over the window,
// excluding the transaction being screened. Zero when there is no history.
func (r *TransactionRepository) AverageAmountSince(ctx context.Context, userID uint64, since time.Time, excludeID uint64) (int64, error) {
	var avg *float64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("AVG(amount_in_cents)").
		Where("user_id = ? AND created_at >= ? AND id <> ?", userID, since, excludeID).
		Scan(&avg)
	if result.Error != nil {
		r.logger.Error("Failed to compute average amount", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if avg == nil {
		return 0, nil
	}
	return int64(*avg), nil
}

func (r *TransactionRepository) wrapLookupError(err error, fields map[string]any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Transaction not found", fields)
		return errs.ErrTransactionNotFound
	}
	fields["error"] = err.Error()
	r.logger.Error("Failed to get transaction", fields)
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}
