package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
	mockcore "github.com/researchlink/payment-processor/mocks/port/core"
	mockpersistence "github.com/researchlink/payment-processor/mocks/port/persistence"
)

func TestTrail_LogTransaction(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should append an entry with encoded details", func(t *testing.T) {
		auditRepo := new(mockpersistence.MockAuditRepository)
		trail := NewTrail(auditRepo, mockcore.NewFixedTimeProvider(fixedTime), mockcore.NewRelaxedLogger())

		userID := uint64(7)
		var captured *entity.AuditEntry
		auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.AuditEntry")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*entity.AuditEntry)
			}).Return(nil)

		trail.LogTransaction(context.Background(), 42, entity.ActionPaymentInitiated, RequestInfo{
			PerformedBy: &userID,
			IPAddress:   "203.0.113.7",
			UserAgent:   "curl/8.0",
		}, map[string]any{"amount": "150.00"})

		assert.NotNil(t, captured)
		assert.Equal(t, uint64(42), captured.TransactionID)
		assert.Equal(t, entity.ActionPaymentInitiated, captured.Action)
		assert.Equal(t, &userID, captured.PerformedBy)
		assert.JSONEq(t, `{"amount":"150.00"}`, captured.Details)
		assert.Equal(t, fixedTime, captured.CreatedAt)
	})

	t.Run("should record system actions without an actor", func(t *testing.T) {
		auditRepo := new(mockpersistence.MockAuditRepository)
		trail := NewTrail(auditRepo, mockcore.NewFixedTimeProvider(fixedTime), mockcore.NewRelaxedLogger())

		var captured *entity.AuditEntry
		auditRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*entity.AuditEntry)
			}).Return(nil)

		trail.LogTransaction(context.Background(), 42, entity.ActionWebhookReceived, System, nil)

		assert.NotNil(t, captured)
		assert.Nil(t, captured.PerformedBy)
		assert.Empty(t, captured.Details)
	})

	t.Run("should swallow persistence failures", func(t *testing.T) {
		auditRepo := new(mockpersistence.MockAuditRepository)
		trail := NewTrail(auditRepo, mockcore.NewFixedTimeProvider(fixedTime), mockcore.NewRelaxedLogger())

		auditRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		assert.NotPanics(t, func() {
			trail.LogTransaction(context.Background(), 42, entity.ActionPaymentFailed, System, nil)
		})
	})
}

func TestTrail_GetAuditLogs(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should clamp unreasonable limits", func(t *testing.T) {
		auditRepo := new(mockpersistence.MockAuditRepository)
		trail := NewTrail(auditRepo, mockcore.NewFixedTimeProvider(fixedTime), mockcore.NewRelaxedLogger())

		auditRepo.On("List", mock.Anything, mock.MatchedBy(func(filter persistence.AuditFilter) bool {
			return filter.Limit == 100
		})).Return([]*entity.AuditEntry{}, nil)

		_, err := trail.GetAuditLogs(context.Background(), persistence.AuditFilter{Limit: 10000})
		assert.NoError(t, err)
		auditRepo.AssertExpectations(t)
	})
}
