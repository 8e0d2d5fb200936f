package entity

import (
	"strings"
	"time"

	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
)

// FraudSeverity ranks how strongly the fraud screen reacted
type FraudSeverity string

// Alert severities, derived from the raw additive score
const (
	SeverityMedium   FraudSeverity = "MEDIUM"
	SeverityHigh     FraudSeverity = "HIGH"
	SeverityCritical FraudSeverity = "CRITICAL"
)

// FraudAlertStatus tracks whether an alert has been handled
type FraudAlertStatus string

// Alert statuses. Resolution happens in the back office, out of scope here,
// but unresolved alerts feed back into scoring.
const (
	AlertActive   FraudAlertStatus = "ACTIVE"
	AlertResolved FraudAlertStatus = "RESOLVED"
)

// FraudAlert records a fraud screen veto against a transaction
type FraudAlert struct {
	ID            uint64
	TransactionID uint64
	UserID        uint64
	Severity      FraudSeverity
	Score         int
	Description   string
	Status        FraudAlertStatus
	CreatedAt     time.Time
}

// NewFraudAlert creates an active alert for a blocked transaction. Severity
// comes from the raw score, the description lists the triggered signal names.
func NewFraudAlert(
	transactionID uint64,
	userID uint64,
	rawScore int,
	signals []string,
	timeProvider coreport.TimeProvider,
) *FraudAlert {
	return &FraudAlert{
		TransactionID: transactionID,
		UserID:        userID,
		Severity:      SeverityForScore(rawScore),
		Score:         rawScore,
		Description:   "fraud signals triggered: " + strings.Join(signals, ", "),
		Status:        AlertActive,
		CreatedAt:     timeProvider.Now(),
	}
}

// SeverityForScore maps a raw additive score to an alert severity
func SeverityForScore(score int) FraudSeverity {
	switch {
	case score >= 80:
		return SeverityCritical
	case score >= 60:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
