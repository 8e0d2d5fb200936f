package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	gatewayport "github.com/researchlink/payment-processor/internal/domain/port/gateway"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
	paymentUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/payment"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/dto"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	orchestrator *paymentUseCase.Orchestrator
	trail        *auditUseCase.Trail
	logger       coreport.Logger
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(
	orchestrator *paymentUseCase.Orchestrator,
	trail *auditUseCase.Trail,
	logger coreport.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		orchestrator: orchestrator,
		trail:        trail,
		logger:       logger,
	}
}

// ProcessPayment handles POST /payments/process
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Authentication required",
		})
		return
	}

	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid payment request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	txn, err := h.orchestrator.ProcessPayment(c.Request.Context(), paymentUseCase.ProcessPaymentRequest{
		UserID:        userID,
		Gateway:       req.Gateway,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentType,
		Description:   req.Description,
		CardToken:     req.CardToken,
		ReturnURL:     req.ReturnURL,
		Metadata:      req.Metadata,
		InvoiceID:     req.InvoiceID,
		ProjectID:     req.ProjectID,
	}, requestInfo(c, userID))
	if err != nil {
		// Fraud blocks and gateway declines still produced a transaction
		// record; surface it with the error so the client can reference it.
		var fraudErr *domainerr.FraudBlockedError
		if errors.As(err, &fraudErr) && txn != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": dto.ErrorResponse{
					Code:    domainerr.ErrorCode(err),
					Message: err.Error(),
				},
				"transaction": dto.NewTransactionResponse(txn),
			})
			return
		}
		var gwErr *domainerr.GatewayError
		if errors.As(err, &gwErr) && txn != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": dto.ErrorResponse{
					Code:    domainerr.ErrorCode(err),
					Message: err.Error(),
				},
				"transaction": dto.NewTransactionResponse(txn),
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTransactionResponse(txn))
}

// GetTransaction handles GET /payments/transactions/:id
func (h *PaymentHandler) GetTransaction(c *gin.Context) {
	userID, _ := currentUserID(c)
	transactionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid transaction id",
		})
		return
	}

	txn, err := h.orchestrator.GetTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionResponse(txn))
}

// ListTransactions handles GET /payments/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userID, _ := currentUserID(c)
	cursor := queryUint(c, "cursor")
	limit := int(queryUint(c, "limit"))

	transactions, nextCursor, err := h.orchestrator.ListTransactions(c.Request.Context(), userID, cursor, limit)
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

// VerifyTransaction handles GET /payments/transactions/:id/verify
func (h *PaymentHandler) VerifyTransaction(c *gin.Context) {
	userID, _ := currentUserID(c)
	transactionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid transaction id",
		})
		return
	}

	result, err := h.orchestrator.VerifyTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VerifyResponse{
		Found:      result.Found,
		Status:     string(result.Status),
		NativeCode: result.NativeCode,
	})
}

// Initiate3DSecure handles POST /payments/transactions/:id/3ds
func (h *PaymentHandler) Initiate3DSecure(c *gin.Context) {
	userID, _ := currentUserID(c)
	transactionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid transaction id",
		})
		return
	}

	session, err := h.orchestrator.Initiate3DSecure(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ThreeDSecureResponse{
		Applicable:  session.Applicable,
		SessionID:   session.SessionID,
		RedirectURL: session.RedirectURL,
	})
}

// TokenizeCard handles POST /payments/tokenize
func (h *PaymentHandler) TokenizeCard(c *gin.Context) {
	var req dto.TokenizeCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	token, err := h.orchestrator.TokenizeCard(c.Request.Context(), req.Gateway, gatewayport.TokenizeRequest{
		CardNumber:  req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		CVV:         req.CVV,
		HolderName:  req.HolderName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CardTokenResponse{
		Token:   token.Token,
		Last4:   token.Last4,
		Brand:   token.Brand,
		Gateway: token.Gateway,
	})
}

// ListGateways handles GET /payments/gateways
func (h *PaymentHandler) ListGateways(c *gin.Context) {
	currency := c.Query("currency")
	includeAll := c.Query("all") == "true"

	configs := h.orchestrator.ListGateways(currency, includeAll)
	gateways := make([]dto.GatewayResponse, 0, len(configs))
	for _, cfg := range configs {
		gateways = append(gateways, dto.NewGatewayResponse(cfg))
	}
	c.JSON(http.StatusOK, gin.H{"gateways": gateways})
}

// GetTransactionAudit handles GET /payments/transactions/:id/audit
func (h *PaymentHandler) GetTransactionAudit(c *gin.Context) {
	userID, _ := currentUserID(c)
	transactionID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid transaction id",
		})
		return
	}

	// Ownership check goes through the orchestrator lookup
	if _, err := h.orchestrator.GetTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.trail.GetTransactionAudit(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"entries": responses})
}
