package dto

import (
	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID       uint64 `json:"id"`
	UserID   uint64 `json:"userId"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// NewWalletResponse maps a wallet entity to its API representation
func NewWalletResponse(wallet *entity.Wallet) WalletResponse {
	return WalletResponse{
		ID:       wallet.ID,
		UserID:   wallet.UserID,
		Balance:  wallet.FormattedBalance(),
		Currency: wallet.Currency,
	}
}

// WalletChangeRequest represents the API request for a top-up or deduction
type WalletChangeRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// WalletChangeResponse couples the updated wallet with the ledger entry the
// change produced.
type WalletChangeResponse struct {
	Wallet      WalletResponse      `json:"wallet"`
	Transaction TransactionResponse `json:"transaction"`
}
