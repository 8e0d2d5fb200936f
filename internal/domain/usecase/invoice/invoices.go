package invoice

import (
	"context"
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
)

// Service manages invoices. Settlement happens through the orchestrator when
// a transaction linked to an invoice completes.
type Service struct {
	invoiceRepo  persistence.InvoiceRepository
	userRepo     persistence.UserRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new invoice service
func NewService(
	invoiceRepo persistence.InvoiceRepository,
	userRepo persistence.UserRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		invoiceRepo:  invoiceRepo,
		userRepo:     userRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create opens an invoice for a user
func (s *Service) Create(
	ctx context.Context,
	userID uint64,
	amount string,
	currency string,
	description string,
	dueAt *time.Time,
) (*entity.Invoice, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	invoice, err := entity.NewInvoice(userID, amount, currency, description, dueAt, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created", map[string]any{
		"invoice_number": invoice.Number,
		"user_id":        userID,
		"amount":         invoice.Amount,
	})
	return invoice, nil
}

// Get returns an invoice visible to its owning user only
func (s *Service) Get(ctx context.Context, userID uint64, invoiceID uint64) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, errs.ErrNotOwner
	}
	return invoice, nil
}

// List returns the user's invoices newest-first
func (s *Service) List(ctx context.Context, userID uint64, limit int) ([]*entity.Invoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.invoiceRepo.ListByUser(ctx, userID, limit)
}
