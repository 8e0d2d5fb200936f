package gateway

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	gatewayport "github.com/researchlink/payment-processor/internal/domain/port/gateway"
)

// MockAdapter is a testify mock for the gateway Adapter port
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAdapter) ProcessPayment(ctx context.Context, req gatewayport.ProcessRequest) (*gatewayport.ProcessResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayport.ProcessResult), args.Error(1)
}

func (m *MockAdapter) RefundTransaction(ctx context.Context, gatewayRef string, amountInCents int64) (*gatewayport.RefundResult, error) {
	args := m.Called(ctx, gatewayRef, amountInCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayport.RefundResult), args.Error(1)
}

func (m *MockAdapter) VerifyTransaction(ctx context.Context, gatewayRef string) (*gatewayport.VerifyResult, error) {
	args := m.Called(ctx, gatewayRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayport.VerifyResult), args.Error(1)
}

func (m *MockAdapter) HandleWebhook(ctx context.Context, payload []byte, signature string) (*gatewayport.WebhookEvent, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayport.WebhookEvent), args.Error(1)
}

func (m *MockAdapter) TokenizeCard(ctx context.Context, req gatewayport.TokenizeRequest) (*gatewayport.CardToken, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayport.CardToken), args.Error(1)
}

func (m *MockAdapter) Initiate3DSecure(ctx context.Context, reference string, amountInCents int64, currency string) (*gatewayport.ThreeDSecureSession, error) {
	args := m.Called(ctx, reference, amountInCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayport.ThreeDSecureSession), args.Error(1)
}

func (m *MockAdapter) Config() *entity.GatewayConfig {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entity.GatewayConfig)
}

// MockRegistry is a testify mock for the gateway Registry port
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Get(name string) (gatewayport.Adapter, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(gatewayport.Adapter), args.Error(1)
}

func (m *MockRegistry) All() []gatewayport.Adapter {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]gatewayport.Adapter)
}
