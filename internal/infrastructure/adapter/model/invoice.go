package model

import (
	"time"
)

// Invoice represents the database model for invoices
type Invoice struct {
	ID            uint64  `gorm:"primaryKey;autoIncrement"`
	Number        string  `gorm:"uniqueIndex;not null;size:64"`
	UserID        uint64  `gorm:"not null;index"`
	Amount        string  `gorm:"not null;size:50"`
	AmountInCents int64   `gorm:"not null"`
	Currency      string  `gorm:"not null;size:3"`
	Description   string  `gorm:"type:text"`
	Status        string  `gorm:"not null;size:30;index"`
	TransactionID *uint64 `gorm:"index"`
	DueAt         *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	PaidAt        *time.Time
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}
