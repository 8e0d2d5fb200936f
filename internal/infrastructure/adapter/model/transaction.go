package model

import (
	"time"
)

// Transaction represents the database model for payment transactions
type Transaction struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	Reference        string `gorm:"uniqueIndex;not null;size:64"`
	UserID           uint64 `gorm:"not null;index"`
	Gateway          string `gorm:"not null;size:50;index"`
	GatewayReference string `gorm:"size:255;index"`
	Amount           string `gorm:"not null;size:50"`
	AmountInCents    int64  `gorm:"not null"`
	Currency         string `gorm:"not null;size:3"`
	PaymentMethod    string `gorm:"not null;size:30"`
	PaymentType      string `gorm:"not null;size:30"`
	Description      string `gorm:"type:text"`
	Status           string `gorm:"not null;size:30;index"`
	FraudScore       int    `gorm:"not null;default:0"`
	GatewayResponse  string `gorm:"type:text"`
	CompletedAt      *time.Time
	FailedAt         *time.Time
	CreatedAt        time.Time `gorm:"not null;index"`
	UpdatedAt        time.Time `gorm:"not null"`

	InvoiceID      *uint64 `gorm:"index"`
	SubscriptionID *uint64
	WalletID       *uint64 `gorm:"index"`
	ProjectID      *uint64
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "payment_transactions"
}
