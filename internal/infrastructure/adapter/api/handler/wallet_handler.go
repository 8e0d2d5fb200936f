package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	walletUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/wallet"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/dto"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	ledger *walletUseCase.Ledger
	logger coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(ledger *walletUseCase.Ledger, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		ledger: ledger,
		logger: logger,
	}
}

// GetWallet handles GET /payments/wallet. A wallet is created on first access.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, _ := currentUserID(c)

	wallet, err := h.ledger.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(wallet))
}

// AddFunds handles POST /payments/wallet/top-up
func (h *WalletHandler) AddFunds(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req dto.WalletChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	wallet, txn, err := h.ledger.AddFunds(c.Request.Context(), userID, req.Amount, req.Description, requestInfo(c, userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WalletChangeResponse{
		Wallet:      dto.NewWalletResponse(wallet),
		Transaction: dto.NewTransactionResponse(txn),
	})
}

// DeductFunds handles POST /payments/wallet/deduct
func (h *WalletHandler) DeductFunds(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req dto.WalletChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	wallet, txn, err := h.ledger.DeductFunds(c.Request.Context(), userID, req.Amount, req.Description, requestInfo(c, userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WalletChangeResponse{
		Wallet:      dto.NewWalletResponse(wallet),
		Transaction: dto.NewTransactionResponse(txn),
	})
}

// ListTransactions handles GET /payments/wallet/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, _ := currentUserID(c)
	cursor := queryUint(c, "cursor")
	limit := int(queryUint(c, "limit"))

	transactions, nextCursor, err := h.ledger.GetTransactions(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		NextCursor:   nextCursor,
	}
	for _, txn := range transactions {
		resp.Transactions = append(resp.Transactions, dto.NewTransactionResponse(txn))
	}
	c.JSON(http.StatusOK, resp)
}
