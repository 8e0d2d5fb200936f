package database

import (
	"database/sql"
	"time"

	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
)

// PoolMonitor periodically logs connection pool statistics so saturation
// shows up in the logs before it shows up as request latency.
type PoolMonitor struct {
	sqlDB  *sql.DB
	logger coreport.Logger
	stop   chan struct{}
	done   chan struct{}
}

// NewPoolMonitor creates a new pool monitor
func NewPoolMonitor(sqlDB *sql.DB, logger coreport.Logger) *PoolMonitor {
	return &PoolMonitor{
		sqlDB:  sqlDB,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins periodic stats collection
func (p *PoolMonitor) Start(interval time.Duration) {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.logStats()
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop halts stats collection and waits for the monitor goroutine to exit
func (p *PoolMonitor) Stop() {
	close(p.stop)
	<-p.done
}

func (p *PoolMonitor) logStats() {
	stats := p.sqlDB.Stats()

	fields := map[string]any{
		"open":            stats.OpenConnections,
		"in_use":          stats.InUse,
		"idle":            stats.Idle,
		"wait_count":      stats.WaitCount,
		"wait_duration":   stats.WaitDuration.String(),
		"max_open_conns":  stats.MaxOpenConnections,
		"max_idle_closed": stats.MaxIdleClosed,
	}

	if stats.WaitCount > 0 {
		p.logger.Warn("Database connection pool under pressure", fields)
		return
	}
	p.logger.Debug("Database connection pool stats", fields)
}
