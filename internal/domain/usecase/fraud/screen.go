package fraud

import (
	"context"
	"fmt"
	"time"

	"github.com/researchlink/payment-processor/internal/domain/entity"
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/domain/port/persistence"
)

// Signal names reported in fraud alerts
const (
	SignalUnusualAmount = "UNUSUAL_AMOUNT"
	SignalHighFrequency = "HIGH_FREQUENCY"
	SignalCardVelocity  = "CARD_VELOCITY"
	SignalActiveAlerts  = "ACTIVE_ALERTS"
)

// Scoring weights and windows. Signals are additive; the raw sum is compared
// against BlockThreshold uncapped, only the persisted score is capped at 100.
const (
	BlockThreshold = 50

	unusualAmountScore = 30
	highFrequencyScore = 25
	cardVelocityScore  = 35
	activeAlertsScore  = 20

	unusualAmountWindow   = 30 * 24 * time.Hour
	unusualAmountMultiple = 3

	highFrequencyWindow = 60 * time.Minute
	highFrequencyCount  = 10

	cardVelocityWindow = 5 * time.Minute
	cardVelocityCount  = 3

	activeAlertsWindow = 24 * time.Hour
)

// Result is the outcome of screening one transaction
type Result struct {
	RawScore int // Additive, may exceed 100
	Score    int // Capped 0-100, the value persisted and reported
	Blocked  bool
	Signals  []string
}

// Screen scores pending transactions against the paying user's persisted
// history. It is deterministic for a given history and clock; its only side
// effect is creating a FraudAlert when it blocks.
type Screen struct {
	transactionRepo persistence.TransactionRepository
	alertRepo       persistence.FraudAlertRepository
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
}

// NewScreen creates a new fraud screen
func NewScreen(
	transactionRepo persistence.TransactionRepository,
	alertRepo persistence.FraudAlertRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Screen {
	return &Screen{
		transactionRepo: transactionRepo,
		alertRepo:       alertRepo,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Evaluate scores the just-created transaction. Counts read persisted history
// and therefore include the transaction under evaluation; the trailing
// average excludes it so a single large payment cannot hide itself.
func (s *Screen) Evaluate(ctx context.Context, txn *entity.Transaction) (*Result, error) {
	now := s.timeProvider.Now()
	result := &Result{}

	avg, err := s.transactionRepo.AverageAmountSince(ctx, txn.UserID, now.Add(-unusualAmountWindow), txn.ID)
	if err != nil {
		return nil, fmt.Errorf("fraud screen: trailing average: %w", err)
	}
	if avg > 0 && txn.AmountInCents >= avg*unusualAmountMultiple {
		result.RawScore += unusualAmountScore
		result.Signals = append(result.Signals, SignalUnusualAmount)
	}

	hourCount, err := s.transactionRepo.CountByUserSince(ctx, txn.UserID, now.Add(-highFrequencyWindow))
	if err != nil {
		return nil, fmt.Errorf("fraud screen: hourly count: %w", err)
	}
	if hourCount > highFrequencyCount {
		result.RawScore += highFrequencyScore
		result.Signals = append(result.Signals, SignalHighFrequency)
	}

	burstCount, err := s.transactionRepo.CountByUserSince(ctx, txn.UserID, now.Add(-cardVelocityWindow))
	if err != nil {
		return nil, fmt.Errorf("fraud screen: burst count: %w", err)
	}
	if burstCount > cardVelocityCount {
		result.RawScore += cardVelocityScore
		result.Signals = append(result.Signals, SignalCardVelocity)
	}

	alertCount, err := s.alertRepo.CountActiveByUserSince(ctx, txn.UserID, now.Add(-activeAlertsWindow))
	if err != nil {
		return nil, fmt.Errorf("fraud screen: active alerts: %w", err)
	}
	if alertCount > 0 {
		result.RawScore += activeAlertsScore
		result.Signals = append(result.Signals, SignalActiveAlerts)
	}

	result.Score = result.RawScore
	if result.Score > 100 {
		result.Score = 100
	}
	result.Blocked = result.RawScore >= BlockThreshold

	if !result.Blocked {
		s.logger.Debug("Fraud screen passed", map[string]any{
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"score":     result.Score,
			"signals":   result.Signals,
		})
		return result, nil
	}

	alert := entity.NewFraudAlert(txn.ID, txn.UserID, result.RawScore, result.Signals, s.timeProvider)
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		// The veto stands even if the alert record could not be written
		s.logger.Error("Failed to create fraud alert", map[string]any{
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"error":     err.Error(),
		})
	}

	s.logger.Warn("Fraud screen blocked transaction", map[string]any{
		"reference": txn.Reference,
		"user_id":   txn.UserID,
		"raw_score": result.RawScore,
		"severity":  string(entity.SeverityForScore(result.RawScore)),
		"signals":   result.Signals,
	})
	return result, nil
}
