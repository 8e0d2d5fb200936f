package model

import (
	"time"
)

// AuditEntry represents the database model for the append-only audit log.
// Rows are only ever inserted, never updated.
type AuditEntry struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID uint64    `gorm:"not null;index"`
	Action        string    `gorm:"not null;size:50;index"`
	PerformedBy   *uint64   `gorm:"index"`
	Details       string    `gorm:"type:text"`
	IPAddress     string    `gorm:"size:45"`
	UserAgent     string    `gorm:"size:512"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for AuditEntry
func (AuditEntry) TableName() string {
	return "payment_audit_log"
}
