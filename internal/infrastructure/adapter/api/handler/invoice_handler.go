package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	invoiceUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/invoice"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/dto"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoices        *invoiceUseCase.Service
	defaultCurrency string
	logger          coreport.Logger
}

// NewInvoiceHandler creates a new invoice handler instance
func NewInvoiceHandler(invoices *invoiceUseCase.Service, defaultCurrency string, logger coreport.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices:        invoices,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// CreateInvoice handles POST /payments/invoices
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = h.defaultCurrency
	}

	invoice, err := h.invoices.Create(c.Request.Context(), userID, req.Amount, currency, req.Description, req.DueAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewInvoiceResponse(invoice))
}

// GetInvoice handles GET /payments/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	userID, _ := currentUserID(c)
	invoiceID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid invoice id",
		})
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), userID, invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInvoiceResponse(invoice))
}

// ListInvoices handles GET /payments/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	userID, _ := currentUserID(c)
	limit := int(queryUint(c, "limit"))

	invoices, err := h.invoices.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		responses = append(responses, dto.NewInvoiceResponse(invoice))
	}
	c.JSON(http.StatusOK, gin.H{"invoices": responses})
}
