package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	paymentUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/payment"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/dto"
)

// WebhookHandler receives asynchronous gateway callbacks. Deliveries are
// acknowledged with 200 whenever possible; returning errors makes gateways
// retry, and a payload we cannot use now will not become usable later.
type WebhookHandler struct {
	orchestrator *paymentUseCase.Orchestrator
	logger       coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(orchestrator *paymentUseCase.Orchestrator, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Receive handles POST /webhooks/:gateway
func (h *WebhookHandler) Receive(c *gin.Context) {
	gateway := c.Param("gateway")
	signature := c.GetHeader("X-Webhook-Signature")

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warn("Failed to read webhook body", map[string]any{
			"gateway": gateway,
			"error":   err.Error(),
		})
		c.JSON(http.StatusOK, dto.WebhookAck{Received: true, Note: "unreadable body"})
		return
	}

	outcome, err := h.orchestrator.HandleWebhook(c.Request.Context(), gateway, payload, signature)
	if err != nil {
		// Unknown gateway or invalid signature. Still 200: the sender
		// cannot fix the delivery by retrying it.
		h.logger.Warn("Webhook rejected", map[string]any{
			"gateway": gateway,
			"error":   err.Error(),
		})
		c.JSON(http.StatusOK, dto.WebhookAck{Received: true, Note: "rejected"})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAck{Received: true, Note: outcome.Note})
}
