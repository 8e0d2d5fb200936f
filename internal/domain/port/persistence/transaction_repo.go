package persistence

import (
	"context"
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with transaction data
type TransactionRepository interface {
	// Create saves a new transaction
	//
	// Possible errors:
	// - ErrUserNotFound: If the referenced user does not exist
	// - ErrDatabaseConnection: If the database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update persists mutable transaction fields (status, timestamps, fraud
	// score, gateway references and response). Amount and currency are never
	// written after creation.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the transaction doesn't exist
	// - ErrDatabaseConnection: If the database connection fails
	Update(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a transaction by its internal id
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// GetByReference retrieves a transaction by its internal reference
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)

	// FindByAnyReference locates a transaction by either the internal
	// reference or the gateway-assigned reference. Used for webhook
	// correlation where networks echo back whichever id they kept.
	FindByAnyReference(ctx context.Context, reference string) (*entity.Transaction, error)

	// ListByUser returns the user's transactions newest-first, starting after
	// the cursor (a transaction id, 0 for the first page)
	ListByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*entity.Transaction, error)

	// ListByWallet returns a wallet's transactions newest-first with the same
	// cursor semantics as ListByUser
	ListByWallet(ctx context.Context, walletID uint64, cursor uint64, limit int) ([]*entity.Transaction, error)

	// CountByUserSince counts the user's transactions created at or after the
	// given instant. Feeds the fraud screen's rolling velocity windows; reads
	// persisted history, never in-memory state.
	CountByUserSince(ctx context.Context, userID uint64, since time.Time) (int64, error)

	// AverageAmountSince returns the mean amount in minor units of the user's
	// transactions created at or after the given instant, excluding the
	// transaction identified by excludeID. Returns 0 when there is no history.
	AverageAmountSince(ctx context.Context, userID uint64, since time.Time, excludeID uint64) (int64, error)
}
