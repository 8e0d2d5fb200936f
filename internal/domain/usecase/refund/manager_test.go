package refund

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

type managerMocks struct {
	txnRepo     *mockpersistence.MockTransactionRepository
	refundRepo  *mockpersistence.MockRefundRepository
	disputeRepo *mockpersistence.MockDisputeRepository
	auditRepo   *mockpersistence.MockAuditRepository
}

func newTestManager(t *testing.T) (*Manager, *managerMocks) {
	t.Helper()
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mocks := &managerMocks{
		txnRepo:     new(mockpersistence.MockTransactionRepository),
		refundRepo:  new(mockpersistence.MockRefundRepository),
		disputeRepo: new(mockpersistence.MockDisputeRepository),
		auditRepo:   new(mockpersistence.MockAuditRepository),
	}
	tp := mockcore.NewFixedTimeProvider(fixedTime)
	logger := mockcore.NewRelaxedLogger()
	trail := auditUseCase.NewTrail(mocks.auditRepo, tp, logger)
	return NewManager(mocks.txnRepo, mocks.refundRepo, mocks.disputeRepo, trail, tp, logger), mocks
}

func completedTransaction() *entity.Transaction {
	return &entity.Transaction{
		ID:            42,
		Reference:     "PAY-20250601120000-ABCDEF123456",
		UserID:        7,
		Amount:        "100.00",
		AmountInCents: 10000,
		Currency:      "SAR",
		Status:        entity.StatusCompleted,
	}
}

func TestManager_CreateRefund(t *testing.T) {
	t.Run("should accept a refund within the remaining amount", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(completedTransaction(), nil)
		mocks.refundRepo.On("CreateWithinCap", mock.Anything, mock.AnythingOfType("*entity.Refund"), int64(10000)).Return(int64(0), nil)
		mocks.refundRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Refund")).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		refund, err := manager.CreateRefund(context.Background(), 7, 42, "40.00", "duplicate charge", "", auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, entity.RefundProcessing, refund.Status)
		assert.Equal(t, "40.00", refund.Amount)
		mocks.refundRepo.AssertExpectations(t)
	})

	t.Run("should reject a refund for another user's transaction", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(completedTransaction(), nil)

		_, err := manager.CreateRefund(context.Background(), 999, 42, "40.00", "x", "", auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrNotOwner)
		mocks.refundRepo.AssertNotCalled(t, "CreateWithinCap")
	})

	t.Run("should reject a refund against a non-completed transaction", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		txn := completedTransaction()
		txn.Status = entity.StatusProcessing
		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(txn, nil)

		_, err := manager.CreateRefund(context.Background(), 7, 42, "40.00", "x", "", auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrNotRefundable)
	})

	t.Run("should reject a single refund above the transaction amount", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(completedTransaction(), nil)

		_, err := manager.CreateRefund(context.Background(), 7, 42, "150.00", "x", "", auditUseCase.RequestInfo{})

		var invariantErr *errs.RefundInvariantError
		assert.ErrorAs(t, err, &invariantErr)
		assert.Equal(t, "150.00", invariantErr.Requested)
		mocks.refundRepo.AssertNotCalled(t, "CreateWithinCap")
	})

	t.Run("should reject when cumulative refunds would exceed the transaction amount", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(completedTransaction(), nil)
		mocks.refundRepo.On("CreateWithinCap", mock.Anything, mock.Anything, int64(10000)).
			Return(int64(7000), errs.ErrRefundExceedsAmount)

		_, err := manager.CreateRefund(context.Background(), 7, 42, "40.00", "x", "", auditUseCase.RequestInfo{})

		var invariantErr *errs.RefundInvariantError
		assert.ErrorAs(t, err, &invariantErr)
		assert.Equal(t, "70.00", invariantErr.AlreadyRefunded)
		mocks.refundRepo.AssertNotCalled(t, "Update")
	})

	t.Run("should surface a guarded-insert rejection when a parallel refund wins the race", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		// The pre-insert reads saw room for this refund, but by insert time a
		// concurrent refund has consumed the remainder. The repository's
		// guarded insert is the authority, not the earlier read.
		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(completedTransaction(), nil)
		mocks.refundRepo.On("CreateWithinCap", mock.Anything, mock.Anything, int64(10000)).
			Return(int64(9000), errs.ErrRefundExceedsAmount)

		_, err := manager.CreateRefund(context.Background(), 7, 42, "20.00", "x", "", auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrRefundExceedsAmount)
		var invariantErr *errs.RefundInvariantError
		assert.ErrorAs(t, err, &invariantErr)
		assert.Equal(t, "90.00", invariantErr.AlreadyRefunded)
		assert.Equal(t, "20.00", invariantErr.Requested)
		mocks.refundRepo.AssertNotCalled(t, "Update")
	})

	t.Run("should allow refunds that exactly exhaust the transaction", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(completedTransaction(), nil)
		mocks.refundRepo.On("CreateWithinCap", mock.Anything, mock.Anything, int64(10000)).Return(int64(7000), nil)
		mocks.refundRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		refund, err := manager.CreateRefund(context.Background(), 7, 42, "30.00", "remainder", "", auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, "30.00", refund.Amount)
	})
}

func TestManager_CreateDispute(t *testing.T) {
	t.Run("should open a dispute and force the transaction into DISPUTED", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		txn := completedTransaction()
		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(txn, nil)
		mocks.disputeRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Dispute")).Return(nil)
		mocks.txnRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *entity.Transaction) bool {
			return updated.Status == entity.StatusDisputed
		})).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		dispute, err := manager.CreateDispute(context.Background(), 7, 42, entity.DisputeChargeback, "unauthorized charge", "", "", auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, entity.DisputeOpen, dispute.Status)
		assert.Equal(t, entity.DisputeChargeback, dispute.Type)
		mocks.txnRepo.AssertExpectations(t)
	})

	t.Run("should dispute even a failed transaction", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		txn := completedTransaction()
		txn.Status = entity.StatusFailed
		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(txn, nil)
		mocks.disputeRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mocks.txnRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := manager.CreateDispute(context.Background(), 7, 42, entity.DisputeUnauthorized, "fraud", "", "", auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusDisputed, txn.Status)
	})

	t.Run("should reject an unknown dispute type", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		_, err := manager.CreateDispute(context.Background(), 7, 42, "buyer_remorse", "x", "", "", auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		mocks.txnRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("should reject a dispute on another user's transaction", func(t *testing.T) {
		manager, mocks := newTestManager(t)

		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(completedTransaction(), nil)

		_, err := manager.CreateDispute(context.Background(), 999, 42, entity.DisputeChargeback, "x", "", "", auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrNotOwner)
		mocks.disputeRepo.AssertNotCalled(t, "Create")
	})
}
