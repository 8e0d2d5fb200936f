package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
	mockcore "github.com/researchlink/payment-processor/mocks/port/core"
)

func TestNewTransaction(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tp := mockcore.NewFixedTimeProvider(fixedTime)

	t.Run("should create a pending transaction with a minted reference", func(t *testing.T) {
		txn, err := NewTransaction(123, "mada", "150.00", "SAR", MethodCard, TypeOneTime, "conference fee", tp)

		assert.NoError(t, err)
		assert.Equal(t, StatusPending, txn.Status)
		assert.Equal(t, uint64(123), txn.UserID)
		assert.Equal(t, "mada", txn.Gateway)
		assert.Equal(t, "150.00", txn.Amount)
		assert.Equal(t, int64(15000), txn.AmountInCents)
		assert.Equal(t, "SAR", txn.Currency)
		assert.True(t, strings.HasPrefix(txn.Reference, "PAY-20250601120000-"))
		assert.Equal(t, fixedTime, txn.CreatedAt)
	})

	t.Run("should normalize the stored amount string", func(t *testing.T) {
		txn, err := NewTransaction(123, "mada", "150.5", "SAR", MethodCard, TypeOneTime, "", tp)

		assert.NoError(t, err)
		assert.Equal(t, "150.50", txn.Amount)
		assert.Equal(t, int64(15050), txn.AmountInCents)
	})

	t.Run("should reject a zero user id", func(t *testing.T) {
		_, err := NewTransaction(0, "mada", "10.00", "SAR", MethodCard, TypeOneTime, "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("should reject an empty currency", func(t *testing.T) {
		_, err := NewTransaction(123, "mada", "10.00", "", MethodCard, TypeOneTime, "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidCurrency)
	})

	t.Run("should reject an unknown payment method", func(t *testing.T) {
		_, err := NewTransaction(123, "mada", "10.00", "SAR", PaymentMethod("cheque"), TypeOneTime, "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidPaymentMethod)
	})

	t.Run("should reject a zero amount", func(t *testing.T) {
		_, err := NewTransaction(123, "mada", "0.00", "SAR", MethodCard, TypeOneTime, "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestTransaction_TransitionTo(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tp := mockcore.NewFixedTimeProvider(fixedTime)

	newTxn := func(status TransactionStatus) *Transaction {
		return &Transaction{ID: 1, Status: status}
	}

	t.Run("should allow the full happy path", func(t *testing.T) {
		txn := newTxn(StatusPending)

		assert.NoError(t, txn.TransitionTo(StatusPending3DS, tp))
		assert.NoError(t, txn.TransitionTo(StatusProcessing, tp))
		assert.NoError(t, txn.TransitionTo(StatusCompleted, tp))
		assert.Equal(t, StatusCompleted, txn.Status)
		assert.NotNil(t, txn.CompletedAt)
	})

	t.Run("should stamp FailedAt on failure", func(t *testing.T) {
		txn := newTxn(StatusProcessing)

		assert.NoError(t, txn.TransitionTo(StatusFailed, tp))
		assert.NotNil(t, txn.FailedAt)
		assert.Nil(t, txn.CompletedAt)
	})

	t.Run("should reject moving backwards", func(t *testing.T) {
		txn := newTxn(StatusProcessing)

		err := txn.TransitionTo(StatusPending, tp)
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
		assert.Equal(t, StatusProcessing, txn.Status)
	})

	t.Run("should reject leaving a terminal state", func(t *testing.T) {
		txn := newTxn(StatusCompleted)

		err := txn.TransitionTo(StatusProcessing, tp)
		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	})

	t.Run("should allow DISPUTED from any state", func(t *testing.T) {
		for _, status := range []TransactionStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
			txn := newTxn(status)
			assert.NoError(t, txn.TransitionTo(StatusDisputed, tp))
			assert.Equal(t, StatusDisputed, txn.Status)
		}
	})
}

func TestTransaction_SetFraudScore(t *testing.T) {
	t.Run("should cap the display score at 100", func(t *testing.T) {
		txn := &Transaction{}
		txn.SetFraudScore(135)
		assert.Equal(t, 100, txn.FraudScore)
	})

	t.Run("should floor the display score at 0", func(t *testing.T) {
		txn := &Transaction{}
		txn.SetFraudScore(-5)
		assert.Equal(t, 0, txn.FraudScore)
	})

	t.Run("should keep in-range scores untouched", func(t *testing.T) {
		txn := &Transaction{}
		txn.SetFraudScore(65)
		assert.Equal(t, 65, txn.FraudScore)
	})
}

func TestTransaction_IsTerminal(t *testing.T) {
	assert.False(t, (&Transaction{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Transaction{Status: StatusProcessing}).IsTerminal())
	assert.True(t, (&Transaction{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Transaction{Status: StatusFailed}).IsTerminal())
	assert.True(t, (&Transaction{Status: StatusDisputed}).IsTerminal())
}
