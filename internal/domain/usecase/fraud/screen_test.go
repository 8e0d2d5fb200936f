package fraud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	mockcore "github.com/researchlink/payment-processor/mocks/port/core"
	mockpersistence "github.com/researchlink/payment-processor/mocks/port/persistence"
)

func TestScreen_Evaluate(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newScreen := func(txnRepo *mockpersistence.MockTransactionRepository, alertRepo *mockpersistence.MockFraudAlertRepository) *Screen {
		return NewScreen(txnRepo, alertRepo, mockcore.NewFixedTimeProvider(fixedTime), mockcore.NewRelaxedLogger())
	}

	txn := func(amountInCents int64) *entity.Transaction {
		return &entity.Transaction{
			ID:            42,
			Reference:     "PAY-20250601120000-ABCDEF123456",
			UserID:        7,
			AmountInCents: amountInCents,
		}
	}

	t.Run("should pass a quiet account with a normal amount", func(t *testing.T) {
		txnRepo := new(mockpersistence.MockTransactionRepository)
		alertRepo := new(mockpersistence.MockFraudAlertRepository)

		txnRepo.On("AverageAmountSince", mock.Anything, uint64(7), mock.Anything, uint64(42)).Return(int64(10000), nil)
		txnRepo.On("CountByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(1), nil)
		alertRepo.On("CountActiveByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(0), nil)

		result, err := newScreen(txnRepo, alertRepo).Evaluate(context.Background(), txn(12000))

		assert.NoError(t, err)
		assert.False(t, result.Blocked)
		assert.Equal(t, 0, result.Score)
		assert.Empty(t, result.Signals)
		alertRepo.AssertNotCalled(t, "Create")
	})

	t.Run("should score an unusual amount without blocking on that signal alone", func(t *testing.T) {
		txnRepo := new(mockpersistence.MockTransactionRepository)
		alertRepo := new(mockpersistence.MockFraudAlertRepository)

		// Trailing average of 100.00, payment of 300.00 trips the multiple
		txnRepo.On("AverageAmountSince", mock.Anything, uint64(7), mock.Anything, uint64(42)).Return(int64(10000), nil)
		txnRepo.On("CountByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(1), nil)
		alertRepo.On("CountActiveByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(0), nil)

		result, err := newScreen(txnRepo, alertRepo).Evaluate(context.Background(), txn(30000))

		assert.NoError(t, err)
		assert.False(t, result.Blocked)
		assert.Equal(t, 30, result.Score)
		assert.Equal(t, []string{SignalUnusualAmount}, result.Signals)
	})

	t.Run("should block when cumulative signals reach the threshold", func(t *testing.T) {
		txnRepo := new(mockpersistence.MockTransactionRepository)
		alertRepo := new(mockpersistence.MockFraudAlertRepository)

		// Unusual amount plus a burst beyond the velocity window: 30 + 35
		txnRepo.On("AverageAmountSince", mock.Anything, uint64(7), mock.Anything, uint64(42)).Return(int64(10000), nil)
		txnRepo.On("CountByUserSince", mock.Anything, uint64(7), fixedTime.Add(-60*time.Minute)).Return(int64(4), nil)
		txnRepo.On("CountByUserSince", mock.Anything, uint64(7), fixedTime.Add(-5*time.Minute)).Return(int64(4), nil)
		alertRepo.On("CountActiveByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(0), nil)
		alertRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.FraudAlert")).Return(nil)

		result, err := newScreen(txnRepo, alertRepo).Evaluate(context.Background(), txn(30000))

		assert.NoError(t, err)
		assert.True(t, result.Blocked)
		assert.Equal(t, 65, result.RawScore)
		assert.ElementsMatch(t, []string{SignalUnusualAmount, SignalCardVelocity}, result.Signals)
		alertRepo.AssertExpectations(t)
	})

	t.Run("should cap the persisted score at 100 while blocking on the raw sum", func(t *testing.T) {
		txnRepo := new(mockpersistence.MockTransactionRepository)
		alertRepo := new(mockpersistence.MockFraudAlertRepository)

		// All four signals: 30 + 25 + 35 + 20 = 110 raw
		txnRepo.On("AverageAmountSince", mock.Anything, uint64(7), mock.Anything, uint64(42)).Return(int64(10000), nil)
		txnRepo.On("CountByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(20), nil)
		alertRepo.On("CountActiveByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(2), nil)
		alertRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.FraudAlert")).Return(nil)

		result, err := newScreen(txnRepo, alertRepo).Evaluate(context.Background(), txn(30000))

		assert.NoError(t, err)
		assert.True(t, result.Blocked)
		assert.Equal(t, 110, result.RawScore)
		assert.Equal(t, 100, result.Score)
	})

	t.Run("should not trip the unusual amount signal without history", func(t *testing.T) {
		txnRepo := new(mockpersistence.MockTransactionRepository)
		alertRepo := new(mockpersistence.MockFraudAlertRepository)

		txnRepo.On("AverageAmountSince", mock.Anything, uint64(7), mock.Anything, uint64(42)).Return(int64(0), nil)
		txnRepo.On("CountByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(1), nil)
		alertRepo.On("CountActiveByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(0), nil)

		result, err := newScreen(txnRepo, alertRepo).Evaluate(context.Background(), txn(100000000))

		assert.NoError(t, err)
		assert.False(t, result.Blocked)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("should still block when the alert record cannot be written", func(t *testing.T) {
		txnRepo := new(mockpersistence.MockTransactionRepository)
		alertRepo := new(mockpersistence.MockFraudAlertRepository)

		txnRepo.On("AverageAmountSince", mock.Anything, uint64(7), mock.Anything, uint64(42)).Return(int64(10000), nil)
		txnRepo.On("CountByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(20), nil)
		alertRepo.On("CountActiveByUserSince", mock.Anything, uint64(7), mock.Anything).Return(int64(0), nil)
		alertRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		result, err := newScreen(txnRepo, alertRepo).Evaluate(context.Background(), txn(30000))

		assert.NoError(t, err)
		assert.True(t, result.Blocked)
	})

	t.Run("should propagate repository failures", func(t *testing.T) {
		txnRepo := new(mockpersistence.MockTransactionRepository)
		alertRepo := new(mockpersistence.MockFraudAlertRepository)

		txnRepo.On("AverageAmountSince", mock.Anything, uint64(7), mock.Anything, uint64(42)).Return(int64(0), assert.AnError)

		result, err := newScreen(txnRepo, alertRepo).Evaluate(context.Background(), txn(30000))

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
