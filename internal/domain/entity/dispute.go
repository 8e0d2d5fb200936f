package entity

import (
	"time"

	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
)

// DisputeStatus defines the lifecycle states of a dispute
type DisputeStatus string

// Dispute lifecycle states. Resolution is a manual back-office process, so the
// payments core only ever opens disputes.
const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeResolved DisputeStatus = "RESOLVED"
)

// Dispute types
const (
	DisputeChargeback     = "chargeback"
	DisputeUnauthorized   = "unauthorized"
	DisputeNotAsDescribed = "not_as_described"
	DisputeNotReceived    = "not_received"
)

// Dispute models a chargeback-style event against a transaction. Opening one
// forces the transaction into DISPUTED regardless of its current status.
type Dispute struct {
	ID            uint64
	TransactionID uint64
	UserID        uint64
	Type          string
	Reason        string
	Description   string
	Evidence      string
	Status        DisputeStatus
	CreatedAt     time.Time
}

// NewDispute creates an open dispute against a transaction
func NewDispute(
	transactionID uint64,
	userID uint64,
	disputeType string,
	reason string,
	description string,
	evidence string,
	timeProvider coreport.TimeProvider,
) *Dispute {
	return &Dispute{
		TransactionID: transactionID,
		UserID:        userID,
		Type:          disputeType,
		Reason:        reason,
		Description:   description,
		Evidence:      evidence,
		Status:        DisputeOpen,
		CreatedAt:     timeProvider.Now(),
	}
}

// IsValidDisputeType validates a dispute type code
func IsValidDisputeType(disputeType string) bool {
	switch disputeType {
	case DisputeChargeback, DisputeUnauthorized, DisputeNotAsDescribed, DisputeNotReceived:
		return true
	}
	return false
}
