package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/researchlink/payment-processor/internal/domain/error"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/dto"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/middleware"
)

// respondError maps a domain error to an HTTP status and the standard error
// body. Fraud blocks and invariant violations are 422: the request was well
// formed, the domain refused it.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case domainerr.IsValidationError(err):
		status = http.StatusBadRequest
	case domainerr.IsNotFoundError(err):
		status = http.StatusNotFound
	case domainerr.IsAuthorizationError(err):
		status = http.StatusForbidden
	case domainerr.IsFraudBlockedError(err), domainerr.IsInvariantViolation(err):
		status = http.StatusUnprocessableEntity
	case domainerr.IsGatewayError(err):
		status = http.StatusBadGateway
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}

// currentUserID returns the authenticated user id set by the auth middleware
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := userID.(uint64)
	return id, ok
}

// requestInfo captures the caller identity for the audit trail
func requestInfo(c *gin.Context, userID uint64) auditUseCase.RequestInfo {
	return auditUseCase.RequestInfo{
		PerformedBy: &userID,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}
}

// pathID parses a numeric path parameter
func pathID(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// queryUint parses an optional numeric query parameter, 0 when absent
func queryUint(c *gin.Context, name string) uint64 {
	value, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return value
}
