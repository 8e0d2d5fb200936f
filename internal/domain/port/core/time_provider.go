package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations so use cases can pin the clock in
// tests. Every entity timestamp and rolling fraud window goes through it.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
