package payment

import (
	"context"
	"encoding/json"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
)

// WebhookOutcome describes what reconciliation did with an inbound webhook.
// Deliveries that match nothing or change nothing are accepted silently so
// the external party never retries indefinitely.
type WebhookOutcome struct {
	EventType   string
	Reference   string
	Applied     bool
	Transaction *entity.Transaction
	Note        string
}

// HandleWebhook reconciles an asynchronous gateway callback with the matching
// transaction. Delivery may happen zero, one or many times for the same
// event; replaying an identical payload is a no-op end to end, including the
// audit log, because a transaction already in the target status is skipped.
func (o *Orchestrator) HandleWebhook(
	ctx context.Context,
	gatewayName string,
	payload []byte,
	signature string,
) (*WebhookOutcome, error) {
	adapter, err := o.registry.Get(gatewayName)
	if err != nil {
		return nil, err
	}

	event, err := adapter.HandleWebhook(ctx, payload, signature)
	if err != nil {
		o.logger.Warn("Webhook payload rejected by adapter", map[string]any{
			"gateway": gatewayName,
			"error":   err.Error(),
		})
		return nil, err
	}
	if !event.Processed {
		return &WebhookOutcome{EventType: event.EventType, Note: "event ignored by adapter"}, nil
	}

	txn := o.locateTransaction(ctx, event.Reference, event.GatewayReference)
	if txn == nil {
		// Accepted but matched nothing. Must not error, or the gateway
		// would retry forever.
		o.logger.Warn("Webhook matched no transaction", map[string]any{
			"gateway":           gatewayName,
			"event_type":        event.EventType,
			"reference":         event.Reference,
			"gateway_reference": event.GatewayReference,
		})
		return &WebhookOutcome{
			EventType: event.EventType,
			Reference: event.Reference,
			Note:      "no matching transaction",
		}, nil
	}

	target, ok := entity.TransactionStatusFor(event.Status)
	if !ok || target == entity.StatusPending {
		return &WebhookOutcome{
			EventType:   event.EventType,
			Reference:   txn.Reference,
			Transaction: txn,
			Note:        "no status change requested",
		}, nil
	}

	if txn.Status == target {
		// Replay of an already-applied event: skip the update and the audit
		// entry so duplicate deliveries leave no trace.
		return &WebhookOutcome{
			EventType:   event.EventType,
			Reference:   txn.Reference,
			Transaction: txn,
			Note:        "already in target status",
		}, nil
	}

	if !txn.CanTransitionTo(target) || txn.Status == entity.StatusDisputed {
		o.logger.Warn("Webhook requested invalid transition", map[string]any{
			"reference": txn.Reference,
			"from":      string(txn.Status),
			"to":        string(target),
		})
		return &WebhookOutcome{
			EventType:   event.EventType,
			Reference:   txn.Reference,
			Transaction: txn,
			Note:        "transition not allowed",
		}, nil
	}

	if err := txn.TransitionTo(target, o.timeProvider); err != nil {
		return nil, err
	}
	if txn.GatewayReference == "" && event.GatewayReference != "" {
		txn.GatewayReference = event.GatewayReference
	}
	if len(event.Metadata) > 0 {
		if raw, marshalErr := json.Marshal(event.Metadata); marshalErr == nil {
			txn.GatewayResponse = string(raw)
		}
	}

	if err := o.transactionRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	if target == entity.StatusCompleted && txn.InvoiceID != nil {
		o.settleInvoice(ctx, txn)
	}

	o.trail.LogTransaction(ctx, txn.ID, entity.ActionWebhookReceived, auditUseCase.System, map[string]any{
		"gateway":    gatewayName,
		"event_type": event.EventType,
		"status":     string(target),
	})

	o.logger.Info("Webhook reconciled", map[string]any{
		"gateway":    gatewayName,
		"reference":  txn.Reference,
		"event_type": event.EventType,
		"status":     string(target),
	})
	return &WebhookOutcome{
		EventType:   event.EventType,
		Reference:   txn.Reference,
		Applied:     true,
		Transaction: txn,
	}, nil
}

// locateTransaction tries the internal reference first, then the
// gateway-assigned reference. Networks echo back whichever id they kept.
func (o *Orchestrator) locateTransaction(ctx context.Context, reference, gatewayReference string) *entity.Transaction {
	if reference != "" {
		if txn, err := o.transactionRepo.FindByAnyReference(ctx, reference); err == nil {
			return txn
		}
	}
	if gatewayReference != "" && gatewayReference != reference {
		if txn, err := o.transactionRepo.FindByAnyReference(ctx, gatewayReference); err == nil {
			return txn
		}
	}
	return nil
}

// settleInvoice marks the linked invoice paid once the settling transaction
// completes. Best-effort alongside the main reconciliation.
func (o *Orchestrator) settleInvoice(ctx context.Context, txn *entity.Transaction) {
	invoice, err := o.invoiceRepo.GetByID(ctx, *txn.InvoiceID)
	if err != nil {
		o.logger.Warn("Completed transaction references missing invoice", map[string]any{
			"reference":  txn.Reference,
			"invoice_id": *txn.InvoiceID,
			"error":      err.Error(),
		})
		return
	}
	if invoice.Status != entity.InvoiceOpen {
		return
	}

	invoice.MarkPaid(txn.ID, o.timeProvider)
	if err := o.invoiceRepo.Update(ctx, invoice); err != nil {
		o.logger.Error("Failed to mark invoice paid", map[string]any{
			"invoice_id": invoice.ID,
			"reference":  txn.Reference,
			"error":      err.Error(),
		})
		return
	}

	o.trail.LogTransaction(ctx, txn.ID, entity.ActionInvoicePaid, auditUseCase.System, map[string]any{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.Number,
	})
}
