package persistence

import (
	"context"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// UserRepository resolves platform users. Account management belongs to
// another service; payments only verifies that the paying identity exists.
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If the user doesn't exist
	// - ErrDatabaseConnection: If the database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)
}

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	// Create saves a new invoice
	Create(ctx context.Context, invoice *entity.Invoice) error

	// Update persists invoice status and payment linkage
	Update(ctx context.Context, invoice *entity.Invoice) error

	// GetByID retrieves an invoice by id
	GetByID(ctx context.Context, id uint64) (*entity.Invoice, error)

	// ListByUser returns the user's invoices newest-first
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Invoice, error)
}
