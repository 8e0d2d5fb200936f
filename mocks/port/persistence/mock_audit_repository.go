package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
)

// MockAuditRepository is a testify mock for the AuditRepository port
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *entity.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByTransaction(ctx context.Context, transactionID uint64) ([]*entity.AuditEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, filter persistence.AuditFilter) ([]*entity.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AuditEntry), args.Error(1)
}

// MockFraudAlertRepository is a testify mock for the FraudAlertRepository port
type MockFraudAlertRepository struct {
	mock.Mock
}

func (m *MockFraudAlertRepository) Create(ctx context.Context, alert *entity.FraudAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockFraudAlertRepository) CountActiveByUserSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFraudAlertRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.FraudAlert, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FraudAlert), args.Error(1)
}
