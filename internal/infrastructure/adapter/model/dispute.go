package model

import (
	"time"
)

// Dispute represents the database model for disputes
type Dispute struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID uint64    `gorm:"not null;index"`
	UserID        uint64    `gorm:"not null;index"`
	Type          string    `gorm:"not null;size:50"`
	Reason        string    `gorm:"type:text"`
	Description   string    `gorm:"type:text"`
	Evidence      string    `gorm:"type:text"`
	Status        string    `gorm:"not null;size:30;index"`
	CreatedAt     time.Time `gorm:"not null"`

	Transaction Transaction `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName specifies the table name for Dispute
func (Dispute) TableName() string {
	return "disputes"
}
