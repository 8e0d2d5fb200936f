package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	errs "github.com/researchlink/payment-processor/internal/domain/error"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	gatewayport "github.com/researchlink/payment-processor/internal/domain/port/gateway"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
	fraudUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/fraud"
)

// Orchestrator coordinates the payment lifecycle: validation, fraud
// screening, gateway dispatch and state transitions. It is the only component
// that creates transactions or mutates their status outside of disputes.
type Orchestrator struct {
	registry        gatewayport.Registry
	transactionRepo persistence.TransactionRepository
	userRepo        persistence.UserRepository
	invoiceRepo     persistence.InvoiceRepository
	screen          *fraudUseCase.Screen
	trail           *auditUseCase.Trail
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	gatewayTimeout  time.Duration
}

// NewOrchestrator creates a new payment orchestrator
func NewOrchestrator(
	registry gatewayport.Registry,
	transactionRepo persistence.TransactionRepository,
	userRepo persistence.UserRepository,
	invoiceRepo persistence.InvoiceRepository,
	screen *fraudUseCase.Screen,
	trail *auditUseCase.Trail,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	gatewayTimeout time.Duration,
) *Orchestrator {
	if gatewayTimeout <= 0 {
		gatewayTimeout = 30 * time.Second
	}
	return &Orchestrator{
		registry:        registry,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		invoiceRepo:     invoiceRepo,
		screen:          screen,
		trail:           trail,
		timeProvider:    timeProvider,
		logger:          logger,
		gatewayTimeout:  gatewayTimeout,
	}
}

// ProcessPaymentRequest is the input for processing a payment
type ProcessPaymentRequest struct {
	UserID        uint64
	Gateway       string
	Amount        string
	Currency      string
	PaymentMethod string
	PaymentType   string
	Description   string
	CardToken     string
	ReturnURL     string
	Metadata      map[string]string
	InvoiceID     *uint64
	ProjectID     *uint64
}

// ProcessPayment validates the request, creates the transaction, screens it
// for fraud and dispatches it to the gateway. Whatever happens during
// dispatch, the transaction always ends up in a definite state: it is never
// left dangling in PENDING.
func (o *Orchestrator) ProcessPayment(
	ctx context.Context,
	req ProcessPaymentRequest,
	info auditUseCase.RequestInfo,
) (*entity.Transaction, error) {
	adapter, cfg, err := o.resolveGateway(req.Gateway)
	if err != nil {
		return nil, err
	}

	amountInCents, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !cfg.SupportsCurrency(req.Currency) {
		return nil, fmt.Errorf("%w: gateway %s does not support %s", errs.ErrInvalidCurrency, cfg.Name, req.Currency)
	}
	method := entity.PaymentMethod(req.PaymentMethod)
	if !cfg.SupportsMethod(method) {
		return nil, fmt.Errorf("%w: gateway %s does not support %s", errs.ErrInvalidPaymentMethod, cfg.Name, req.PaymentMethod)
	}
	if !cfg.AmountWithinBounds(amountInCents) {
		return nil, fmt.Errorf("%w: %s is outside %s limits [%s, %s]",
			errs.ErrAmountOutOfBounds,
			entity.FormatAmount(amountInCents),
			cfg.Name,
			entity.FormatAmount(cfg.MinAmountInCents),
			entity.FormatAmount(cfg.MaxAmountInCents))
	}

	if _, err := o.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	txn, err := entity.NewTransaction(
		req.UserID,
		cfg.Name,
		req.Amount,
		req.Currency,
		method,
		entity.PaymentType(req.PaymentType),
		req.Description,
		o.timeProvider,
	)
	if err != nil {
		return nil, err
	}
	txn.InvoiceID = req.InvoiceID
	txn.ProjectID = req.ProjectID

	if err := o.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	screening, err := o.screen.Evaluate(ctx, txn)
	if err != nil {
		return nil, err
	}
	txn.SetFraudScore(screening.Score)

	if screening.Blocked {
		txn.MarkFailed("blocked by fraud screening", o.timeProvider)
		if err := o.transactionRepo.Update(ctx, txn); err != nil {
			return nil, err
		}
		o.trail.LogTransaction(ctx, txn.ID, entity.ActionFraudBlocked, info, map[string]any{
			"reference": txn.Reference,
			"score":     screening.RawScore,
			"signals":   screening.Signals,
		})
		return txn, &errs.FraudBlockedError{
			TransactionRef: txn.Reference,
			UserID:         txn.UserID,
			Score:          screening.RawScore,
			Signals:        screening.Signals,
		}
	}

	return o.dispatch(ctx, adapter, txn, req, info)
}

// dispatch sends the transaction to the gateway and applies the resulting
// state transition. Gateway errors are captured on the transaction and
// re-raised; the gateway call is bounded by a timeout so the transaction can
// never stay PENDING forever.
func (o *Orchestrator) dispatch(
	ctx context.Context,
	adapter gatewayport.Adapter,
	txn *entity.Transaction,
	req ProcessPaymentRequest,
	info auditUseCase.RequestInfo,
) (*entity.Transaction, error) {
	gatewayCtx, cancel := o.timeProvider.WithTimeout(ctx, o.gatewayTimeout)
	defer cancel()

	result, err := adapter.ProcessPayment(gatewayCtx, gatewayport.ProcessRequest{
		Reference:     txn.Reference,
		AmountInCents: txn.AmountInCents,
		Currency:      txn.Currency,
		Method:        txn.PaymentMethod,
		Description:   txn.Description,
		CardToken:     req.CardToken,
		ReturnURL:     req.ReturnURL,
		Metadata:      req.Metadata,
	})

	if err != nil || !result.Success {
		gwErr := &errs.GatewayError{
			Gateway:        adapter.Name(),
			TransactionRef: txn.Reference,
			Err:            err,
		}
		if result != nil {
			gwErr.NativeCode = result.NativeCode
			gwErr.Message = result.Message
			txn.GatewayReference = result.GatewayReference
		}
		if err != nil {
			gwErr.Message = err.Error()
		}

		txn.MarkFailed(gwErr.Message, o.timeProvider)
		if updateErr := o.transactionRepo.Update(ctx, txn); updateErr != nil {
			o.logger.Error("Failed to persist gateway failure", map[string]any{
				"reference": txn.Reference,
				"error":     updateErr.Error(),
			})
		}
		o.trail.LogTransaction(ctx, txn.ID, entity.ActionPaymentFailed, info, map[string]any{
			"reference":   txn.Reference,
			"gateway":     adapter.Name(),
			"native_code": gwErr.NativeCode,
			"message":     gwErr.Message,
		})
		return txn, gwErr
	}

	txn.GatewayReference = result.GatewayReference
	if raw, marshalErr := json.Marshal(result.Raw); marshalErr == nil {
		txn.GatewayResponse = string(raw)
	}

	target := entity.StatusProcessing
	if result.Requires3DS {
		target = entity.StatusPending3DS
	}
	if err := txn.TransitionTo(target, o.timeProvider); err != nil {
		return nil, err
	}
	if err := o.transactionRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	o.trail.LogTransaction(ctx, txn.ID, entity.ActionPaymentInitiated, info, map[string]any{
		"reference":         txn.Reference,
		"gateway":           adapter.Name(),
		"gateway_reference": txn.GatewayReference,
		"status":            string(txn.Status),
		"requires_3ds":      result.Requires3DS,
	})

	o.logger.Info("Payment dispatched", map[string]any{
		"reference":         txn.Reference,
		"gateway":           adapter.Name(),
		"gateway_reference": txn.GatewayReference,
		"status":            string(txn.Status),
		"amount":            txn.Amount,
		"currency":          txn.Currency,
	})
	return txn, nil
}

// TokenizeCard exchanges card data for an opaque token through the named
// gateway. Raw card data never touches storage.
func (o *Orchestrator) TokenizeCard(
	ctx context.Context,
	gatewayName string,
	req gatewayport.TokenizeRequest,
) (*gatewayport.CardToken, error) {
	adapter, cfg, err := o.resolveGateway(gatewayName)
	if err != nil {
		return nil, err
	}
	if !cfg.SupportsTokenization {
		return nil, fmt.Errorf("%w: gateway %s does not support tokenization", errs.ErrInvalidRequest, cfg.Name)
	}

	tokenCtx, cancel := o.timeProvider.WithTimeout(ctx, o.gatewayTimeout)
	defer cancel()
	return adapter.TokenizeCard(tokenCtx, req)
}

// Initiate3DSecure starts interactive authentication for a transaction
// awaiting it. Only the transaction owner may initiate.
func (o *Orchestrator) Initiate3DSecure(
	ctx context.Context,
	userID uint64,
	transactionID uint64,
) (*gatewayport.ThreeDSecureSession, error) {
	txn, err := o.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, errs.ErrNotOwner
	}

	adapter, _, err := o.resolveGateway(txn.Gateway)
	if err != nil {
		return nil, err
	}

	authCtx, cancel := o.timeProvider.WithTimeout(ctx, o.gatewayTimeout)
	defer cancel()
	return adapter.Initiate3DSecure(authCtx, txn.Reference, txn.AmountInCents, txn.Currency)
}

// VerifyTransaction queries the gateway for the transaction's current state
func (o *Orchestrator) VerifyTransaction(
	ctx context.Context,
	userID uint64,
	transactionID uint64,
) (*gatewayport.VerifyResult, error) {
	txn, err := o.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, errs.ErrNotOwner
	}
	if txn.GatewayReference == "" {
		return &gatewayport.VerifyResult{Found: false}, nil
	}

	adapter, _, err := o.resolveGateway(txn.Gateway)
	if err != nil {
		return nil, err
	}

	verifyCtx, cancel := o.timeProvider.WithTimeout(ctx, o.gatewayTimeout)
	defer cancel()
	return adapter.VerifyTransaction(verifyCtx, txn.GatewayReference)
}

// GetTransaction returns a transaction visible to its owning user only
func (o *Orchestrator) GetTransaction(ctx context.Context, userID uint64, transactionID uint64) (*entity.Transaction, error) {
	txn, err := o.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, errs.ErrNotOwner
	}
	return txn, nil
}

// ListTransactions returns the user's transactions newest-first with cursor
// pagination
func (o *Orchestrator) ListTransactions(
	ctx context.Context,
	userID uint64,
	cursor uint64,
	limit int,
) ([]*entity.Transaction, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	transactions, err := o.transactionRepo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}

	var nextCursor uint64
	if len(transactions) == limit {
		nextCursor = transactions[len(transactions)-1].ID
	}
	return transactions, nextCursor, nil
}

// ListGateways returns configured gateways, optionally filtered to those that
// are active and support the given currency.
func (o *Orchestrator) ListGateways(currency string, includeAll bool) []*entity.GatewayConfig {
	var configs []*entity.GatewayConfig
	for _, adapter := range o.registry.All() {
		cfg := adapter.Config()
		if includeAll {
			configs = append(configs, cfg)
			continue
		}
		if !cfg.Active {
			continue
		}
		if currency != "" && !cfg.SupportsCurrency(currency) {
			continue
		}
		configs = append(configs, cfg)
	}
	return configs
}

// resolveGateway looks up an adapter by name and checks that it is active.
// Unknown or inactive names are a hard ErrGatewayNotFound at every entry point.
func (o *Orchestrator) resolveGateway(name string) (gatewayport.Adapter, *entity.GatewayConfig, error) {
	adapter, err := o.registry.Get(name)
	if err != nil {
		return nil, nil, err
	}
	cfg := adapter.Config()
	if !cfg.Active {
		return nil, nil, fmt.Errorf("%w: gateway %s is inactive", errs.ErrGatewayNotFound, name)
	}
	return adapter, cfg, nil
}
