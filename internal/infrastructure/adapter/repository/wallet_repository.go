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

// WalletRepository implements WalletRepository interface using GORM
type WalletRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *WalletRepository) modelToEntity(m *model.Wallet) *entity.Wallet {
	wallet := &entity.Wallet{
		ID:        m.ID,
		UserID:    m.UserID,
		Currency:  m.Currency,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	wallet.SetBalance(m.Balance)
	return wallet
}

// GetByUserID retrieves a user's wallet
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	var walletModel model.Wallet
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&walletModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWalletNotFound
		}
		r.logger.Error("Failed to get wallet", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return r.modelToEntity(&walletModel), nil
}

// Create saves a new wallet with a zero balance. A duplicate key error is
// surfaced as ErrDatabaseConnection wrapping the driver error; the ledger
// resolves concurrent creation races by re-reading.
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	walletModel := model.Wallet{
		UserID:    wallet.UserID,
		Balance:   0,
		Currency:  wallet.Currency,
		CreatedAt: wallet.CreatedAt,
		UpdatedAt: wallet.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&walletModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Wallet already exists for user", map[string]any{
				"user_id": wallet.UserID,
			})
		} else {
			r.logger.Error("Failed to create wallet", map[string]any{
				"user_id": wallet.UserID,
				"error":   result.Error.Error(),
			})
		}
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	wallet.ID = walletModel.ID

	r.logger.Info("Wallet created successfully", map[string]any{
		"wallet_id": wallet.ID,
		"user_id":   wallet.UserID,
	})
	return nil
}

// ApplyBalanceChange atomically applies delta to the wallet balance and
// inserts the ledger transaction in the same database transaction. The
// balance change is a single conditional update, so concurrent deductions
// can never drive the balance negative.
func (r *WalletRepository) ApplyBalanceChange(ctx context.Context, walletID uint64, delta int64, ledgerEntry *entity.Transaction) (*entity.Wallet, error) {
	r.logger.Debug("Applying wallet balance change", map[string]any{
		"wallet_id": walletID,
		"delta":     entity.FormatAmount(delta),
	})

	var walletModel model.Wallet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.timeProvider.Now()

		result := tx.Model(&model.Wallet{}).
			Where("id = ? AND balance + ? >= 0", walletID, delta).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", delta),
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Distinguish a missing wallet from an uncovered deduction
			var count int64
			if err := tx.Model(&model.Wallet{}).Where("id = ?", walletID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errs.ErrWalletNotFound
			}
			return errs.ErrInsufficientFunds
		}

		ledgerModel := model.Transaction{
			Reference:        ledgerEntry.Reference,
			UserID:           ledgerEntry.UserID,
			Gateway:          ledgerEntry.Gateway,
			GatewayReference: ledgerEntry.GatewayReference,
			Amount:           ledgerEntry.Amount,
			AmountInCents:    ledgerEntry.AmountInCents,
			Currency:         ledgerEntry.Currency,
			PaymentMethod:    string(ledgerEntry.PaymentMethod),
			PaymentType:      string(ledgerEntry.PaymentType),
			Description:      ledgerEntry.Description,
			Status:           string(ledgerEntry.Status),
			FraudScore:       ledgerEntry.FraudScore,
			GatewayResponse:  ledgerEntry.GatewayResponse,
			CompletedAt:      ledgerEntry.CompletedAt,
			CreatedAt:        ledgerEntry.CreatedAt,
			UpdatedAt:        ledgerEntry.UpdatedAt,
			WalletID:         ledgerEntry.WalletID,
		}
		if err := tx.Create(&ledgerModel).Error; err != nil {
			return err
		}
		ledgerEntry.ID = ledgerModel.ID

		return tx.First(&walletModel, walletID).Error
	})

	if err != nil {
		if errors.Is(err, errs.ErrWalletNotFound) || errors.Is(err, errs.ErrInsufficientFunds) {
			r.logger.Warn("Wallet balance change rejected", map[string]any{
				"wallet_id": walletID,
				"delta":     entity.FormatAmount(delta),
				"reason":    err.Error(),
			})
			return nil, err
		}
		r.logger.Error("Failed to apply wallet balance change", map[string]any{
			"wallet_id": walletID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	r.logger.Info("Wallet balance changed", map[string]any{
		"wallet_id":   walletID,
		"delta":       entity.FormatAmount(delta),
		"new_balance": entity.FormatAmount(walletModel.Balance),
	})

	return r.modelToEntity(&walletModel), nil
}
