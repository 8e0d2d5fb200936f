package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
	mockcore "github.com/researchlink/payment-processor/mocks/port/core"
	mockpersistence "github.com/researchlink/payment-processor/mocks/port/persistence"
)

func TestLedger_GetOrCreateWallet(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newLedger := func(
		walletRepo *mockpersistence.MockWalletRepository,
		userRepo *mockpersistence.MockUserRepository,
		txnRepo *mockpersistence.MockTransactionRepository,
		auditRepo *mockpersistence.MockAuditRepository,
	) *Ledger {
		tp := mockcore.NewFixedTimeProvider(fixedTime)
		logger := mockcore.NewRelaxedLogger()
		trail := auditUseCase.NewTrail(auditRepo, tp, logger)
		return NewLedger(walletRepo, userRepo, txnRepo, trail, tp, logger, "SAR")
	}

	t.Run("should return an existing wallet", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)
		userRepo := new(mockpersistence.MockUserRepository)

		existing := &entity.Wallet{ID: 9, UserID: 7, Currency: "SAR"}
		walletRepo.On("GetByUserID", mock.Anything, uint64(7)).Return(existing, nil)

		ledger := newLedger(walletRepo, userRepo, new(mockpersistence.MockTransactionRepository), new(mockpersistence.MockAuditRepository))
		wallet, err := ledger.GetOrCreateWallet(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, existing, wallet)
		walletRepo.AssertNotCalled(t, "Create")
	})

	t.Run("should create a wallet on first use", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)
		userRepo := new(mockpersistence.MockUserRepository)

		walletRepo.On("GetByUserID", mock.Anything, uint64(7)).Return(nil, errs.ErrWalletNotFound)
		userRepo.On("GetByID", mock.Anything, uint64(7)).Return(&entity.User{ID: 7}, nil)
		walletRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Wallet")).Return(nil)

		ledger := newLedger(walletRepo, userRepo, new(mockpersistence.MockTransactionRepository), new(mockpersistence.MockAuditRepository))
		wallet, err := ledger.GetOrCreateWallet(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, uint64(7), wallet.UserID)
		assert.Equal(t, "SAR", wallet.Currency)
		assert.Equal(t, int64(0), wallet.Balance())
		walletRepo.AssertExpectations(t)
	})

	t.Run("should not create a wallet for an unknown user", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)
		userRepo := new(mockpersistence.MockUserRepository)

		walletRepo.On("GetByUserID", mock.Anything, uint64(999)).Return(nil, errs.ErrWalletNotFound)
		userRepo.On("GetByID", mock.Anything, uint64(999)).Return(nil, errs.ErrUserNotFound)

		ledger := newLedger(walletRepo, userRepo, new(mockpersistence.MockTransactionRepository), new(mockpersistence.MockAuditRepository))
		wallet, err := ledger.GetOrCreateWallet(context.Background(), 999)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		assert.Nil(t, wallet)
		walletRepo.AssertNotCalled(t, "Create")
	})

	t.Run("should reject a zero user id", func(t *testing.T) {
		ledger := newLedger(new(mockpersistence.MockWalletRepository), new(mockpersistence.MockUserRepository), new(mockpersistence.MockTransactionRepository), new(mockpersistence.MockAuditRepository))

		_, err := ledger.GetOrCreateWallet(context.Background(), 0)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestLedger_AddFunds(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should credit the wallet and record a completed ledger entry", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)
		userRepo := new(mockpersistence.MockUserRepository)
		auditRepo := new(mockpersistence.MockAuditRepository)
		tp := mockcore.NewFixedTimeProvider(fixedTime)
		logger := mockcore.NewRelaxedLogger()
		trail := auditUseCase.NewTrail(auditRepo, tp, logger)

		existing := &entity.Wallet{ID: 9, UserID: 7, Currency: "SAR"}
		updated := &entity.Wallet{ID: 9, UserID: 7, Currency: "SAR"}
		updated.SetBalance(5000)

		walletRepo.On("GetByUserID", mock.Anything, uint64(7)).Return(existing, nil)
		walletRepo.On("ApplyBalanceChange", mock.Anything, uint64(9), int64(5000), mock.AnythingOfType("*entity.Transaction")).Return(updated, nil)
		auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

		ledger := NewLedger(walletRepo, userRepo, new(mockpersistence.MockTransactionRepository), trail, tp, logger, "SAR")
		wallet, entry, err := ledger.AddFunds(context.Background(), 7, "50.00", "top up", auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, int64(5000), wallet.Balance())
		assert.Equal(t, entity.StatusCompleted, entry.Status)
		assert.Equal(t, entity.TypeWalletTopUp, entry.PaymentType)
		assert.Equal(t, WalletGatewayName, entry.Gateway)
		assert.Equal(t, entity.MethodWallet, entry.PaymentMethod)
		assert.NotNil(t, entry.WalletID)
		assert.Equal(t, uint64(9), *entry.WalletID)
		walletRepo.AssertExpectations(t)
	})

	t.Run("should reject a zero amount", func(t *testing.T) {
		ledger := NewLedger(
			new(mockpersistence.MockWalletRepository),
			new(mockpersistence.MockUserRepository),
			new(mockpersistence.MockTransactionRepository),
			auditUseCase.NewTrail(new(mockpersistence.MockAuditRepository), mockcore.NewFixedTimeProvider(fixedTime), mockcore.NewRelaxedLogger()),
			mockcore.NewFixedTimeProvider(fixedTime),
			mockcore.NewRelaxedLogger(),
			"SAR",
		)

		_, _, err := ledger.AddFunds(context.Background(), 7, "0.00", "", auditUseCase.RequestInfo{})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestLedger_DeductFunds(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newLedger := func(walletRepo *mockpersistence.MockWalletRepository, auditRepo *mockpersistence.MockAuditRepository) *Ledger {
		tp := mockcore.NewFixedTimeProvider(fixedTime)
		logger := mockcore.NewRelaxedLogger()
		trail := auditUseCase.NewTrail(auditRepo, tp, logger)
		return NewLedger(walletRepo, new(mockpersistence.MockUserRepository), new(mockpersistence.MockTransactionRepository), trail, tp, logger, "SAR")
	}

	t.Run("should debit the wallet", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)
		auditRepo := new(mockpersistence.MockAuditRepository)

		existing := &entity.Wallet{ID: 9, UserID: 7, Currency: "SAR"}
		existing.SetBalance(10000)
		updated := &entity.Wallet{ID: 9, UserID: 7, Currency: "SAR"}
		updated.SetBalance(7000)

		walletRepo.On("GetByUserID", mock.Anything, uint64(7)).Return(existing, nil)
		walletRepo.On("ApplyBalanceChange", mock.Anything, uint64(9), int64(-3000), mock.AnythingOfType("*entity.Transaction")).Return(updated, nil)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		wallet, entry, err := newLedger(walletRepo, auditRepo).DeductFunds(context.Background(), 7, "30.00", "compute credits", auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, int64(7000), wallet.Balance())
		assert.Equal(t, entity.TypeWalletDebit, entry.PaymentType)
		walletRepo.AssertExpectations(t)
	})

	t.Run("should report requested and available amounts when funds are short", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)

		existing := &entity.Wallet{ID: 9, UserID: 7, Currency: "SAR"}
		existing.SetBalance(1000)

		walletRepo.On("GetByUserID", mock.Anything, uint64(7)).Return(existing, nil)
		walletRepo.On("ApplyBalanceChange", mock.Anything, uint64(9), int64(-3000), mock.Anything).Return(nil, errs.ErrInsufficientFunds)

		_, _, err := newLedger(walletRepo, new(mockpersistence.MockAuditRepository)).DeductFunds(context.Background(), 7, "30.00", "", auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		var insufficientErr *errs.InsufficientFundsError
		assert.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, "30.00", insufficientErr.Requested)
		assert.Equal(t, "10.00", insufficientErr.Available)
	})

	t.Run("should not create a wallet on deduction", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)
		walletRepo.On("GetByUserID", mock.Anything, uint64(7)).Return(nil, errs.ErrWalletNotFound)

		_, _, err := newLedger(walletRepo, new(mockpersistence.MockAuditRepository)).DeductFunds(context.Background(), 7, "30.00", "", auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrWalletNotFound)
		walletRepo.AssertNotCalled(t, "Create")
	})
}

func TestLedger_GetTransactions(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should page newest-first with a cursor", func(t *testing.T) {
		walletRepo := new(mockpersistence.MockWalletRepository)
		txnRepo := new(mockpersistence.MockTransactionRepository)
		tp := mockcore.NewFixedTimeProvider(fixedTime)
		logger := mockcore.NewRelaxedLogger()
		trail := auditUseCase.NewTrail(new(mockpersistence.MockAuditRepository), tp, logger)

		wallet := &entity.Wallet{ID: 9, UserID: 7, Currency: "SAR"}
		page := []*entity.Transaction{{ID: 30}, {ID: 29}}

		walletRepo.On("GetByUserID", mock.Anything, uint64(7)).Return(wallet, nil)
		txnRepo.On("ListByWallet", mock.Anything, uint64(9), uint64(0), 2).Return(page, nil)

		ledger := NewLedger(walletRepo, new(mockpersistence.MockUserRepository), txnRepo, trail, tp, logger, "SAR")
		transactions, nextCursor, err := ledger.GetTransactions(context.Background(), 7, 0, 2)

		assert.NoError(t, err)
		assert.Len(t, transactions, 2)
		assert.Equal(t, uint64(29), nextCursor)
	})
}
