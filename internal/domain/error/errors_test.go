package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Run("should map sentinel errors to their codes", func(t *testing.T) {
		assert.Equal(t, CodeInvalidAmount, ErrorCode(ErrInvalidAmount))
		assert.Equal(t, CodeInvalidAmount, ErrorCode(ErrNegativeAmount))
		assert.Equal(t, CodeAmountOutOfBounds, ErrorCode(ErrAmountOutOfBounds))
		assert.Equal(t, CodeNotOwner, ErrorCode(ErrNotOwner))
		assert.Equal(t, CodeGatewayNotFound, ErrorCode(ErrGatewayNotFound))
		assert.Equal(t, CodeTransactionNotFound, ErrorCode(ErrTransactionNotFound))
		assert.Equal(t, CodeInsufficientFunds, ErrorCode(ErrInsufficientFunds))
		assert.Equal(t, CodeGatewayFailure, ErrorCode(ErrGatewayFailure))
	})

	t.Run("should see through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", ErrWalletNotFound)
		assert.Equal(t, CodeWalletNotFound, ErrorCode(wrapped))
	})

	t.Run("should default to the internal server code", func(t *testing.T) {
		assert.Equal(t, CodeInternalServer, ErrorCode(errors.New("something else")))
	})
}

func TestTypedErrors(t *testing.T) {
	t.Run("fraud blocked error should match its sentinel", func(t *testing.T) {
		err := &FraudBlockedError{TransactionRef: "PAY-1", Score: 65, Signals: []string{"UNUSUAL_AMOUNT"}}
		assert.ErrorIs(t, err, ErrFraudBlocked)
		assert.Equal(t, CodeFraudBlocked, ErrorCode(err))
		assert.Contains(t, err.Error(), "PAY-1")
	})

	t.Run("gateway error should match and unwrap", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &GatewayError{Gateway: "mada", TransactionRef: "PAY-1", Err: cause}
		assert.ErrorIs(t, err, ErrGatewayFailure)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("insufficient funds error should match its sentinel", func(t *testing.T) {
		err := &InsufficientFundsError{UserID: 7, Requested: "30.00", Available: "10.00"}
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Contains(t, err.Error(), "30.00")
	})

	t.Run("refund invariant error should match its sentinel", func(t *testing.T) {
		err := &RefundInvariantError{TransactionID: 42, Requested: "40.00", AlreadyRefunded: "70.00", TransactionAmount: "100.00"}
		assert.ErrorIs(t, err, ErrRefundExceedsAmount)
	})
}

func TestErrorClassifiers(t *testing.T) {
	t.Run("should classify validation errors", func(t *testing.T) {
		assert.True(t, IsValidationError(ErrInvalidAmount))
		assert.True(t, IsValidationError(ErrInvalidCurrency))
		assert.False(t, IsValidationError(ErrUserNotFound))
	})

	t.Run("should classify not-found errors", func(t *testing.T) {
		assert.True(t, IsNotFoundError(ErrTransactionNotFound))
		assert.True(t, IsNotFoundError(ErrWalletNotFound))
		assert.False(t, IsNotFoundError(ErrInvalidAmount))
	})

	t.Run("should classify authorization errors", func(t *testing.T) {
		assert.True(t, IsAuthorizationError(ErrNotOwner))
		assert.False(t, IsAuthorizationError(ErrUserNotFound))
	})

	t.Run("should classify invariant violations", func(t *testing.T) {
		assert.True(t, IsInvariantViolation(ErrRefundExceedsAmount))
		assert.True(t, IsInvariantViolation(ErrInsufficientFunds))
		assert.True(t, IsInvariantViolation(ErrInvalidStatusTransition))
		assert.False(t, IsInvariantViolation(ErrInvalidAmount))
	})
}
