package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest       = 4000
	CodeInvalidAmount        = 4001
	CodeAmountOutOfBounds    = 4002
	CodeInvalidUserID        = 4003
	CodeInvalidCurrency      = 4004
	CodeInvalidPaymentMethod = 4005
	CodeNotOwner             = 4030
	CodeGatewayNotFound      = 4040
	CodeUserNotFound         = 4041
	CodeTransactionNotFound  = 4042
	CodeRefundNotFound       = 4043
	CodeWalletNotFound       = 4044
	CodeInvoiceNotFound      = 4045
	CodeFraudBlocked         = 4220
	CodeRefundExceedsAmount  = 4221
	CodeInsufficientFunds    = 4222
	CodeNotRefundable        = 4223
	CodeInvalidTransition    = 4224

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeGatewayFailure = 5020
)

// Base error types
var (
	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAmount is returned when the amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when the amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrAmountOutOfBounds is returned when the amount falls outside the gateway's limits
	ErrAmountOutOfBounds = errors.New("amount outside gateway limits")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrInvalidCurrency is returned when the currency code is missing or unsupported
	ErrInvalidCurrency = errors.New("invalid or unsupported currency")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown or unsupported
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrNotOwner is returned when a record does not belong to the caller
	ErrNotOwner = errors.New("record does not belong to the requesting user")

	// ErrGatewayNotFound is returned when the named gateway is not registered or inactive
	ErrGatewayNotFound = errors.New("payment gateway not found")

	// ErrUserNotFound is returned when the paying user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrRefundNotFound is returned when the requested refund doesn't exist
	ErrRefundNotFound = errors.New("refund not found")

	// ErrWalletNotFound is returned when the user has no wallet yet
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInvoiceNotFound is returned when the requested invoice doesn't exist
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrFraudBlocked is returned when the fraud screen vetoes a transaction
	ErrFraudBlocked = errors.New("transaction blocked by fraud screening")

	// ErrGatewayFailure is returned when the gateway adapter failed or declined
	ErrGatewayFailure = errors.New("gateway processing failed")

	// ErrRefundExceedsAmount is returned when a refund would push the cumulative
	// refunded total past the transaction amount
	ErrRefundExceedsAmount = errors.New("refund exceeds refundable amount")

	// ErrInsufficientFunds is returned when a wallet deduction would go negative
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrNotRefundable is returned when the transaction is not in a refundable state
	ErrNotRefundable = errors.New("transaction is not refundable")

	// ErrInvalidStatusTransition is returned when a status change violates the state machine
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountOutOfBounds):
		return CodeAmountOutOfBounds
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidCurrency):
		return CodeInvalidCurrency
	case errors.Is(err, ErrInvalidPaymentMethod):
		return CodeInvalidPaymentMethod
	case errors.Is(err, ErrNotOwner):
		return CodeNotOwner
	case errors.Is(err, ErrGatewayNotFound):
		return CodeGatewayNotFound
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrRefundNotFound):
		return CodeRefundNotFound
	case errors.Is(err, ErrWalletNotFound):
		return CodeWalletNotFound
	case errors.Is(err, ErrInvoiceNotFound):
		return CodeInvoiceNotFound
	case errors.Is(err, ErrFraudBlocked):
		return CodeFraudBlocked
	case errors.Is(err, ErrRefundExceedsAmount):
		return CodeRefundExceedsAmount
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrNotRefundable):
		return CodeNotRefundable
	case errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrGatewayFailure):
		return CodeGatewayFailure
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeInternalServer
	}
}

// FraudBlockedError carries the score and triggered signals of a fraud veto
type FraudBlockedError struct {
	TransactionRef string
	UserID         uint64
	Score          int
	Signals        []string
}

// Error implements the error interface
func (e *FraudBlockedError) Error() string {
	return fmt.Sprintf("transaction %s blocked by fraud screening (score %d, signals: %s)",
		e.TransactionRef, e.Score, strings.Join(e.Signals, ", "))
}

// Is checks if the target error is ErrFraudBlocked
func (e *FraudBlockedError) Is(target error) bool {
	return target == ErrFraudBlocked
}

// LogFields returns a map of fields for structured logging
func (e *FraudBlockedError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "fraud_blocked",
		"reference":   e.TransactionRef,
		"user_id":     e.UserID,
		"fraud_score": e.Score,
		"signals":     e.Signals,
		"error_code":  CodeFraudBlocked,
	}
}

// GatewayError wraps a failure reported by or thrown from a gateway adapter
type GatewayError struct {
	Gateway        string
	TransactionRef string
	NativeCode     string
	Message        string
	Err            error
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s failed for %s: %s: %v", e.Gateway, e.TransactionRef, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s failed for %s: %s (code %s)", e.Gateway, e.TransactionRef, e.Message, e.NativeCode)
}

// Unwrap returns the underlying error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is ErrGatewayFailure
func (e *GatewayError) Is(target error) bool {
	return target == ErrGatewayFailure
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "gateway_error",
		"gateway":     e.Gateway,
		"reference":   e.TransactionRef,
		"native_code": e.NativeCode,
		"message":     e.Message,
		"error_code":  CodeGatewayFailure,
	}
}

// InsufficientFundsError provides detail for rejected wallet deductions
type InsufficientFundsError struct {
	UserID    uint64
	Requested string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance for user %d: requested %s, available %s",
		e.UserID, e.Requested, e.Available)
}

// Is checks if the target error is ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"requested":  e.Requested,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// RefundInvariantError provides detail for over-refund rejections
type RefundInvariantError struct {
	TransactionID     uint64
	TransactionAmount string
	AlreadyRefunded   string
	Requested         string
}

// Error implements the error interface
func (e *RefundInvariantError) Error() string {
	return fmt.Sprintf("refund of %s would exceed transaction %d amount %s (already refunded %s)",
		e.Requested, e.TransactionID, e.TransactionAmount, e.AlreadyRefunded)
}

// Is checks if the target error is ErrRefundExceedsAmount
func (e *RefundInvariantError) Is(target error) bool {
	return target == ErrRefundExceedsAmount
}

// LogFields returns a map of fields for structured logging
func (e *RefundInvariantError) LogFields() map[string]any {
	return map[string]any{
		"error_type":         "refund_invariant",
		"transaction_id":     e.TransactionID,
		"transaction_amount": e.TransactionAmount,
		"already_refunded":   e.AlreadyRefunded,
		"requested":          e.Requested,
		"error_code":         CodeRefundExceedsAmount,
	}
}

// IsValidationError reports errors rejected before any persistence
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrAmountOutOfBounds) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidCurrency) ||
		errors.Is(err, ErrInvalidPaymentMethod)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrGatewayNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrRefundNotFound) ||
		errors.Is(err, ErrWalletNotFound) ||
		errors.Is(err, ErrInvoiceNotFound)
}

// IsAuthorizationError checks if the error is an ownership rejection
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrNotOwner)
}

// IsInvariantViolation checks if the error is a hard accounting invariant rejection
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrRefundExceedsAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidStatusTransition)
}

// IsFraudBlockedError checks if the error is a fraud screen veto
func IsFraudBlockedError(err error) bool {
	return errors.Is(err, ErrFraudBlocked)
}

// IsGatewayError checks if the error originated in a gateway adapter
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrGatewayFailure)
}
