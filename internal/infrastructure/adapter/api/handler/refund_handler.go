package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	refundUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/refund"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/dto"
)

// RefundHandler handles refund and dispute HTTP requests
type RefundHandler struct {
	manager *refundUseCase.Manager
	logger  coreport.Logger
}

// NewRefundHandler creates a new refund handler instance
func NewRefundHandler(manager *refundUseCase.Manager, logger coreport.Logger) *RefundHandler {
	return &RefundHandler{
		manager: manager,
		logger:  logger,
	}
}

// CreateRefund handles POST /payments/refunds
func (h *RefundHandler) CreateRefund(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	refund, err := h.manager.CreateRefund(
		c.Request.Context(),
		userID,
		req.TransactionID,
		req.Amount,
		req.Reason,
		req.Description,
		requestInfo(c, userID),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRefundResponse(refund))
}

// ListRefunds handles GET /payments/refunds
func (h *RefundHandler) ListRefunds(c *gin.Context) {
	userID, _ := currentUserID(c)
	limit := int(queryUint(c, "limit"))

	refunds, err := h.manager.ListRefunds(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.RefundResponse, 0, len(refunds))
	for _, refund := range refunds {
		responses = append(responses, dto.NewRefundResponse(refund))
	}
	c.JSON(http.StatusOK, gin.H{"refunds": responses})
}

// CreateDispute handles POST /payments/disputes
func (h *RefundHandler) CreateDispute(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req dto.DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	dispute, err := h.manager.CreateDispute(
		c.Request.Context(),
		userID,
		req.TransactionID,
		req.Type,
		req.Reason,
		req.Description,
		req.Evidence,
		requestInfo(c, userID),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewDisputeResponse(dispute))
}

// ListDisputes handles GET /payments/disputes
func (h *RefundHandler) ListDisputes(c *gin.Context) {
	userID, _ := currentUserID(c)
	limit := int(queryUint(c, "limit"))

	disputes, err := h.manager.ListDisputes(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.DisputeResponse, 0, len(disputes))
	for _, dispute := range disputes {
		responses = append(responses, dto.NewDisputeResponse(dispute))
	}
	c.JSON(http.StatusOK, gin.H{"disputes": responses})
}
