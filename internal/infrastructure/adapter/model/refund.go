package model

import (
	"time"
)

// Refund represents the database model for refunds
type Refund struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	Reference     string    `gorm:"uniqueIndex;not null;size:64"`
	TransactionID uint64    `gorm:"not null;index"`
	UserID        uint64    `gorm:"not null;index"`
	Amount        string    `gorm:"not null;size:50"`
	AmountInCents int64     `gorm:"not null"`
	Reason        string    `gorm:"not null;size:50"`
	Description   string    `gorm:"type:text"`
	Status        string    `gorm:"not null;size:30;index"`
	CreatedAt     time.Time `gorm:"not null"`
	ProcessedAt   *time.Time

	Transaction Transaction `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName specifies the table name for Refund
func (Refund) TableName() string {
	return "refunds"
}
