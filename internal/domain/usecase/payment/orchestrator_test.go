package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	gatewayport "github.com/researchlink/payment-processor/internal/domain/port/gateway"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
	fraudUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/fraud"
	mockcore "github.com/researchlink/payment-processor/mocks/port/core"
	mockgateway "github.com/researchlink/payment-processor/mocks/port/gateway"
	mockpersistence "github.com/researchlink/payment-processor/mocks/port/persistence"
)

type orchestratorMocks struct {
	registry    *mockgateway.MockRegistry
	adapter     *mockgateway.MockAdapter
	txnRepo     *mockpersistence.MockTransactionRepository
	userRepo    *mockpersistence.MockUserRepository
	invoiceRepo *mockpersistence.MockInvoiceRepository
	alertRepo   *mockpersistence.MockFraudAlertRepository
	auditRepo   *mockpersistence.MockAuditRepository
}

func cardGatewayConfig() *entity.GatewayConfig {
	return &entity.GatewayConfig{
		Name:                "mada",
		DisplayName:         "mada",
		Active:              true,
		SupportedCurrencies: []string{"SAR"},
		SupportedMethods:    []entity.PaymentMethod{entity.MethodCard},
		MinAmountInCents:    100,
		MaxAmountInCents:    5000000,
		Supports3DSecure:    true,
	}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *orchestratorMocks) {
	t.Helper()
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mocks := &orchestratorMocks{
		registry:    new(mockgateway.MockRegistry),
		adapter:     new(mockgateway.MockAdapter),
		txnRepo:     new(mockpersistence.MockTransactionRepository),
		userRepo:    new(mockpersistence.MockUserRepository),
		invoiceRepo: new(mockpersistence.MockInvoiceRepository),
		alertRepo:   new(mockpersistence.MockFraudAlertRepository),
		auditRepo:   new(mockpersistence.MockAuditRepository),
	}
	tp := mockcore.NewFixedTimeProvider(fixedTime)
	logger := mockcore.NewRelaxedLogger()
	trail := auditUseCase.NewTrail(mocks.auditRepo, tp, logger)
	screen := fraudUseCase.NewScreen(mocks.txnRepo, mocks.alertRepo, tp, logger)

	orchestrator := NewOrchestrator(
		mocks.registry,
		mocks.txnRepo,
		mocks.userRepo,
		mocks.invoiceRepo,
		screen,
		trail,
		tp,
		logger,
		30*time.Second,
	)
	return orchestrator, mocks
}

// expectQuietHistory stubs the fraud screen queries so nothing trips
func expectQuietHistory(mocks *orchestratorMocks) {
	mocks.txnRepo.On("AverageAmountSince", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	mocks.txnRepo.On("CountByUserSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	mocks.alertRepo.On("CountActiveByUserSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
}

func TestOrchestrator_ProcessPayment(t *testing.T) {
	validRequest := func() ProcessPaymentRequest {
		return ProcessPaymentRequest{
			UserID:        7,
			Gateway:       "mada",
			Amount:        "150.00",
			Currency:      "SAR",
			PaymentMethod: "card",
			PaymentType:   "one_time",
			Description:   "conference registration",
		}
	}

	t.Run("should move a card payment to PENDING_3DS when the gateway requires it", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cardGatewayConfig())
		mocks.adapter.On("Name").Return("mada")
		mocks.userRepo.On("GetByID", mock.Anything, uint64(7)).Return(&entity.User{ID: 7}, nil)
		mocks.txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Transaction")).Return(nil)
		expectQuietHistory(mocks)
		mocks.adapter.On("ProcessPayment", mock.Anything, mock.MatchedBy(func(req gatewayport.ProcessRequest) bool {
			return req.AmountInCents == 15000 && req.Currency == "SAR"
		})).Return(&gatewayport.ProcessResult{
			Success:          true,
			GatewayReference: "MD-123456",
			Status:           entity.GatewayProcessing,
			Requires3DS:      true,
		}, nil)
		mocks.txnRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		txn, err := orchestrator.ProcessPayment(context.Background(), validRequest(), auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusPending3DS, txn.Status)
		assert.Equal(t, "MD-123456", txn.GatewayReference)
	})

	t.Run("should move to PROCESSING when no interactive step is needed", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cardGatewayConfig())
		mocks.adapter.On("Name").Return("mada")
		mocks.userRepo.On("GetByID", mock.Anything, uint64(7)).Return(&entity.User{ID: 7}, nil)
		mocks.txnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		expectQuietHistory(mocks)
		mocks.adapter.On("ProcessPayment", mock.Anything, mock.Anything).Return(&gatewayport.ProcessResult{
			Success:          true,
			GatewayReference: "MD-777",
			Status:           entity.GatewayProcessing,
		}, nil)
		mocks.txnRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		txn, err := orchestrator.ProcessPayment(context.Background(), validRequest(), auditUseCase.RequestInfo{})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusProcessing, txn.Status)
	})

	t.Run("should fail the transaction and return it when fraud screening blocks", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cardGatewayConfig())
		mocks.userRepo.On("GetByID", mock.Anything, uint64(7)).Return(&entity.User{ID: 7}, nil)
		mocks.txnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		// A burst of payments trips both velocity signals: 25 + 35
		mocks.txnRepo.On("AverageAmountSince", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
		mocks.txnRepo.On("CountByUserSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(20), nil)
		mocks.alertRepo.On("CountActiveByUserSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
		mocks.alertRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mocks.txnRepo.On("Update", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Status == entity.StatusFailed
		})).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		txn, err := orchestrator.ProcessPayment(context.Background(), validRequest(), auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrFraudBlocked)
		var fraudErr *errs.FraudBlockedError
		assert.ErrorAs(t, err, &fraudErr)
		assert.Equal(t, 60, fraudErr.Score)
		assert.NotNil(t, txn)
		assert.Equal(t, entity.StatusFailed, txn.Status)
		mocks.adapter.AssertNotCalled(t, "ProcessPayment")
	})

	t.Run("should fail the transaction when the gateway declines", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cardGatewayConfig())
		mocks.adapter.On("Name").Return("mada")
		mocks.userRepo.On("GetByID", mock.Anything, uint64(7)).Return(&entity.User{ID: 7}, nil)
		mocks.txnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		expectQuietHistory(mocks)
		mocks.adapter.On("ProcessPayment", mock.Anything, mock.Anything).Return(&gatewayport.ProcessResult{
			Success:    false,
			Status:     entity.GatewayDeclined,
			NativeCode: "100",
			Message:    "declined by issuer",
		}, nil)
		mocks.txnRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		txn, err := orchestrator.ProcessPayment(context.Background(), validRequest(), auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrGatewayFailure)
		var gwErr *errs.GatewayError
		assert.ErrorAs(t, err, &gwErr)
		assert.Equal(t, "100", gwErr.NativeCode)
		assert.Equal(t, entity.StatusFailed, txn.Status)
	})

	t.Run("should reject an unsupported currency before creating anything", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cardGatewayConfig())

		req := validRequest()
		req.Currency = "USD"
		_, err := orchestrator.ProcessPayment(context.Background(), req, auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrInvalidCurrency)
		mocks.txnRepo.AssertNotCalled(t, "Create")
	})

	t.Run("should reject amounts outside the gateway limits", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cardGatewayConfig())

		req := validRequest()
		req.Amount = "0.50"
		_, err := orchestrator.ProcessPayment(context.Background(), req, auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrAmountOutOfBounds)
	})

	t.Run("should reject an unknown gateway", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "paypal").Return(nil, errs.ErrGatewayNotFound)

		req := validRequest()
		req.Gateway = "paypal"
		_, err := orchestrator.ProcessPayment(context.Background(), req, auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrGatewayNotFound)
	})

	t.Run("should reject an inactive gateway", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		cfg := cardGatewayConfig()
		cfg.Active = false
		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cfg)

		_, err := orchestrator.ProcessPayment(context.Background(), validRequest(), auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrGatewayNotFound)
	})

	t.Run("should reject an unknown user", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cardGatewayConfig())
		mocks.userRepo.On("GetByID", mock.Anything, uint64(7)).Return(nil, errs.ErrUserNotFound)

		_, err := orchestrator.ProcessPayment(context.Background(), validRequest(), auditUseCase.RequestInfo{})

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		mocks.txnRepo.AssertNotCalled(t, "Create")
	})
}

func TestOrchestrator_GetTransaction(t *testing.T) {
	t.Run("should return the owner's transaction", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		txn := &entity.Transaction{ID: 42, UserID: 7}
		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(txn, nil)

		got, err := orchestrator.GetTransaction(context.Background(), 7, 42)
		assert.NoError(t, err)
		assert.Equal(t, txn, got)
	})

	t.Run("should hide other users' transactions", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		mocks.txnRepo.On("GetByID", mock.Anything, uint64(42)).Return(&entity.Transaction{ID: 42, UserID: 7}, nil)

		_, err := orchestrator.GetTransaction(context.Background(), 999, 42)
		assert.ErrorIs(t, err, errs.ErrNotOwner)
	})
}

func TestOrchestrator_ListGateways(t *testing.T) {
	newAdapter := func(cfg *entity.GatewayConfig) *mockgateway.MockAdapter {
		a := new(mockgateway.MockAdapter)
		a.On("Config").Return(cfg)
		return a
	}

	t.Run("should filter to active gateways supporting the currency", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		sarOnly := cardGatewayConfig()
		multi := cardGatewayConfig()
		multi.Name = "hyperpay"
		multi.SupportedCurrencies = []string{"SAR", "USD", "EUR"}
		inactive := cardGatewayConfig()
		inactive.Name = "legacy"
		inactive.Active = false

		mocks.registry.On("All").Return([]gatewayport.Adapter{
			newAdapter(sarOnly), newAdapter(multi), newAdapter(inactive),
		})

		configs := orchestrator.ListGateways("USD", false)

		assert.Len(t, configs, 1)
		assert.Equal(t, "hyperpay", configs[0].Name)
	})

	t.Run("should include inactive gateways when asked for all", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		inactive := cardGatewayConfig()
		inactive.Active = false
		mocks.registry.On("All").Return([]gatewayport.Adapter{newAdapter(inactive)})

		configs := orchestrator.ListGateways("", true)
		assert.Len(t, configs, 1)
	})
}

func TestOrchestrator_TokenizeCard(t *testing.T) {
	t.Run("should refuse gateways without tokenization", func(t *testing.T) {
		orchestrator, mocks := newTestOrchestrator(t)

		cfg := cardGatewayConfig()
		cfg.SupportsTokenization = false
		mocks.registry.On("Get", "mada").Return(mocks.adapter, nil)
		mocks.adapter.On("Config").Return(cfg)

		_, err := orchestrator.TokenizeCard(context.Background(), "mada", gatewayport.TokenizeRequest{})

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		mocks.adapter.AssertNotCalled(t, "TokenizeCard")
	})
}
