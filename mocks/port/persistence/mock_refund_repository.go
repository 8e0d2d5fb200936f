package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/researchlink/payment-processor/internal/domain/entity"
)

// MockRefundRepository is a testify mock for the RefundRepository port
type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) CreateWithinCap(ctx context.Context, refund *entity.Refund, capInCents int64) (int64, error) {
	args := m.Called(ctx, refund, capInCents)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefundRepository) Update(ctx context.Context, refund *entity.Refund) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}

func (m *MockRefundRepository) GetByID(ctx context.Context, id uint64) (*entity.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Refund), args.Error(1)
}

func (m *MockRefundRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Refund, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Refund), args.Error(1)
}

// MockDisputeRepository is a testify mock for the DisputeRepository port
type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) Create(ctx context.Context, dispute *entity.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

func (m *MockDisputeRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]*entity.Dispute, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Dispute), args.Error(1)
}
