package model

import (
	"time"
)

// FraudAlert represents the database model for fraud alerts
type FraudAlert struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID uint64    `gorm:"not null;index"`
	UserID        uint64    `gorm:"not null;index"`
	Severity      string    `gorm:"not null;size:20"`
	Score         int       `gorm:"not null"`
	Description   string    `gorm:"type:text"`
	Status        string    `gorm:"not null;size:20;index"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for FraudAlert
func (FraudAlert) TableName() string {
	return "fraud_alerts"
}
