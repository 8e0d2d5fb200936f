package entity

import "time"

// User is a thin projection of the platform's user record. Account management
// lives in another service; payments only needs identity and existence.
type User struct {
	ID        uint64
	Email     string
	FullName  string
	CreatedAt time.Time
}
