package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/dto"
)

// AuditHandler exposes the audit log. Callers only ever see entries they
// performed themselves; system entries surface through the per-transaction
// audit endpoint.
type AuditHandler struct {
	trail  *auditUseCase.Trail
	logger coreport.Logger
}

// NewAuditHandler creates a new audit handler instance
func NewAuditHandler(trail *auditUseCase.Trail, logger coreport.Logger) *AuditHandler {
	return &AuditHandler{
		trail:  trail,
		logger: logger,
	}
}

// List handles GET /payments/audit
func (h *AuditHandler) List(c *gin.Context) {
	userID, _ := currentUserID(c)

	filter := persistence.AuditFilter{
		PerformedBy: &userID,
		Action:      c.Query("action"),
		Limit:       int(queryUint(c, "limit")),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid from timestamp, expected RFC3339",
			})
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid to timestamp, expected RFC3339",
			})
			return
		}
		filter.To = &t
	}

	entries, err := h.trail.GetAuditLogs(c.Request.Context(), filter)
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
