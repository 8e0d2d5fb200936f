package model

import (
	"time"
)

// User is the read-only projection of the platform's user table. Account
// management is owned by another service; this service only reads it.
type User struct {
	ID        uint64    `gorm:"primaryKey"`
	Email     string    `gorm:"not null;size:255"`
	FullName  string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
