package entity

import (
	"time"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
)

// Wallet is a per-user stored-value balance in a fixed currency. Only the
// wallet ledger mutates it, always through atomic conditional updates, so the
// balance never goes negative.
type Wallet struct {
	ID        uint64
	UserID    uint64
	balance   int64 // Minor units, private so mutation goes through the ledger
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet creates an empty wallet for a user
func NewWallet(userID uint64, currency string, timeProvider coreport.TimeProvider) (*Wallet, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if currency == "" {
		return nil, errs.ErrInvalidCurrency
	}

	now := timeProvider.Now()
	return &Wallet{
		UserID:    userID,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Balance returns the balance in minor units
func (w *Wallet) Balance() int64 {
	return w.balance
}

// FormattedBalance returns the balance as a decimal string
func (w *Wallet) FormattedBalance() string {
	return FormatAmount(w.balance)
}

// SetBalance is used by repositories when hydrating from storage
func (w *Wallet) SetBalance(balanceInCents int64) {
	w.balance = balanceInCents
}

// CanDeduct reports whether the wallet covers the given amount
func (w *Wallet) CanDeduct(amountInCents int64) bool {
	return w.balance >= amountInCents
}
