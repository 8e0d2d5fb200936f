package persistence

import (
	"context"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// WalletRepository defines persistence for wallets
type WalletRepository interface {
	// GetByUserID retrieves a user's wallet
	//
	// Possible errors:
	// - ErrWalletNotFound: If the user has no wallet yet
	// - ErrDatabaseConnection: If the database connection fails
	GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error)

	// Create saves a new wallet with a zero balance
	Create(ctx context.Context, wallet *entity.Wallet) error

	// ApplyBalanceChange atomically applies delta (positive or negative, in
	// minor units) to the wallet balance and persists the accompanying ledger
	// transaction in the same database transaction. The balance change is a
	// single conditional update, so the balance can never go negative even
	// under concurrent top-ups and deductions.
	//
	// Possible errors:
	// - ErrWalletNotFound: If the wallet doesn't exist
	// - ErrInsufficientFunds: If the deduction would make the balance negative
	// - ErrDatabaseConnection: If the database connection fails
	ApplyBalanceChange(ctx context.Context, walletID uint64, delta int64, ledgerEntry *entity.Transaction) (*entity.Wallet, error)
}
