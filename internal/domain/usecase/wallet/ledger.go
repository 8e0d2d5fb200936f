package wallet

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

// WalletGatewayName tags ledger transactions so they are distinguishable from
// gateway-mediated payments in the shared transaction history.
const WalletGatewayName = "wallet"

// Ledger is the only component allowed to mutate wallet balances. Every
// balance change also creates a transaction row so the ledger and the
// transaction history stay consistent.
type Ledger struct {
	walletRepo      persistence.WalletRepository
	userRepo        persistence.UserRepository
	transactionRepo persistence.TransactionRepository
	trail           *auditUseCase.Trail
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	defaultCurrency string
}

// NewLedger creates a new wallet ledger
func NewLedger(
	walletRepo persistence.WalletRepository,
	userRepo persistence.UserRepository,
	transactionRepo persistence.TransactionRepository,
	trail *auditUseCase.Trail,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	defaultCurrency string,
) *Ledger {
	return &Ledger{
		walletRepo:      walletRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		trail:           trail,
		timeProvider:    timeProvider,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

// GetOrCreateWallet returns the user's wallet, creating an empty one in the
// platform's default currency on first use. Idempotent.
func (l *Ledger) GetOrCreateWallet(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	wallet, err := l.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, errs.ErrWalletNotFound) {
		return nil, err
	}

	if _, err := l.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	wallet, err = entity.NewWallet(userID, l.defaultCurrency, l.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := l.walletRepo.Create(ctx, wallet); err != nil {
		// A concurrent first use may have created it already
		if existing, getErr := l.walletRepo.GetByUserID(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	l.logger.Info("Wallet created", map[string]any{
		"user_id":  userID,
		"currency": wallet.Currency,
	})
	return wallet, nil
}

// AddFunds credits the wallet and records a completed ledger transaction.
// Top-ups are synchronous, not gateway-mediated, so the transaction row is
// COMPLETED immediately.
func (l *Ledger) AddFunds(
	ctx context.Context,
	userID uint64,
	amount string,
	description string,
	info auditUseCase.RequestInfo,
) (*entity.Wallet, *entity.Transaction, error) {
	amountInCents, err := entity.ParseAmount(amount)
	if err != nil {
		return nil, nil, err
	}
	if amountInCents <= 0 {
		return nil, nil, fmt.Errorf("%w: top-up amount must be positive", errs.ErrInvalidAmount)
	}

	wallet, err := l.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ledgerEntry, err := l.newLedgerEntry(userID, wallet, amountInCents, entity.TypeWalletTopUp, description)
	if err != nil {
		return nil, nil, err
	}

	updated, err := l.walletRepo.ApplyBalanceChange(ctx, wallet.ID, amountInCents, ledgerEntry)
	if err != nil {
		return nil, nil, err
	}

	l.trail.LogTransaction(ctx, ledgerEntry.ID, entity.ActionWalletTopUp, info, map[string]any{
		"amount":      ledgerEntry.Amount,
		"currency":    ledgerEntry.Currency,
		"new_balance": updated.FormattedBalance(),
	})

	l.logger.Info("Wallet credited", map[string]any{
		"user_id":     userID,
		"amount":      ledgerEntry.Amount,
		"new_balance": updated.FormattedBalance(),
	})
	return updated, ledgerEntry, nil
}

// DeductFunds debits the wallet. The balance check and the decrement happen
// in one conditional update, so the balance never goes negative even under
// concurrent operations.
func (l *Ledger) DeductFunds(
	ctx context.Context,
	userID uint64,
	amount string,
	description string,
	info auditUseCase.RequestInfo,
) (*entity.Wallet, *entity.Transaction, error) {
	amountInCents, err := entity.ParseAmount(amount)
	if err != nil {
		return nil, nil, err
	}
	if amountInCents <= 0 {
		return nil, nil, fmt.Errorf("%w: deduction amount must be positive", errs.ErrInvalidAmount)
	}

	wallet, err := l.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ledgerEntry, err := l.newLedgerEntry(userID, wallet, amountInCents, entity.TypeWalletDebit, description)
	if err != nil {
		return nil, nil, err
	}

	updated, err := l.walletRepo.ApplyBalanceChange(ctx, wallet.ID, -amountInCents, ledgerEntry)
	if err != nil {
		if errors.Is(err, errs.ErrInsufficientFunds) {
			return nil, nil, &errs.InsufficientFundsError{
				UserID:    userID,
				Requested: entity.FormatAmount(amountInCents),
				Available: wallet.FormattedBalance(),
			}
		}
		return nil, nil, err
	}

	l.trail.LogTransaction(ctx, ledgerEntry.ID, entity.ActionWalletDeduction, info, map[string]any{
		"amount":      ledgerEntry.Amount,
		"currency":    ledgerEntry.Currency,
		"new_balance": updated.FormattedBalance(),
	})

	l.logger.Info("Wallet debited", map[string]any{
		"user_id":     userID,
		"amount":      ledgerEntry.Amount,
		"new_balance": updated.FormattedBalance(),
	})
	return updated, ledgerEntry, nil
}

// GetTransactions returns the wallet's transaction history newest-first.
// Cursor is the id of the last transaction of the previous page, 0 for the
// first page.
func (l *Ledger) GetTransactions(
	ctx context.Context,
	userID uint64,
	cursor uint64,
	limit int,
) ([]*entity.Transaction, uint64, error) {
	wallet, err := l.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	transactions, err := l.transactionRepo.ListByWallet(ctx, wallet.ID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}

	var nextCursor uint64
	if len(transactions) == limit {
		nextCursor = transactions[len(transactions)-1].ID
	}
	return transactions, nextCursor, nil
}

// newLedgerEntry builds the completed transaction row that mirrors a wallet
// balance change.
func (l *Ledger) newLedgerEntry(
	userID uint64,
	wallet *entity.Wallet,
	amountInCents int64,
	paymentType entity.PaymentType,
	description string,
) (*entity.Transaction, error) {
	entry, err := entity.NewTransaction(
		userID,
		WalletGatewayName,
		entity.FormatAmount(amountInCents),
		wallet.Currency,
		entity.MethodWallet,
		paymentType,
		description,
		l.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	walletID := wallet.ID
	entry.WalletID = &walletID
	if err := entry.TransitionTo(entity.StatusCompleted, l.timeProvider); err != nil {
		return nil, err
	}
	return entry, nil
}
