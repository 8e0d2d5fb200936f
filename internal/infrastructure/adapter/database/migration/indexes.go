package migration

import (
	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"gorm.io/gorm"
)

// IndexManager manages PostgreSQL-specific indexes beyond what AutoMigrate
// derives from the model tags.
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

// CreatePaymentIndexes creates indexes tuned for the hot query paths:
// webhook correlation, fraud screening windows and user-facing listings.
func (m *IndexManager) CreatePaymentIndexes() error {
	m.logger.Info("Creating PostgreSQL indexes", nil)

	statements := []struct {
		name string
		sql  string
	}{
		{
			// Webhook correlation looks up either reference in one query
			name: "idx_payment_transactions_gateway_reference",
			sql: `CREATE INDEX IF NOT EXISTS idx_payment_transactions_gateway_reference
				ON payment_transactions (gateway_reference)
				WHERE gateway_reference <> ''`,
		},
		{
			// Fraud velocity windows scan by user and creation time
			name: "idx_payment_transactions_user_created",
			sql: `CREATE INDEX IF NOT EXISTS idx_payment_transactions_user_created
				ON payment_transactions (user_id, created_at)`,
		},
		{
			name: "idx_payment_transactions_user_status",
			sql: `CREATE INDEX IF NOT EXISTS idx_payment_transactions_user_status
				ON payment_transactions (user_id, status)`,
		},
		{
			// BRIN suits the append-mostly transaction table
			name: "idx_payment_transactions_created_at_brin",
			sql: `CREATE INDEX IF NOT EXISTS idx_payment_transactions_created_at_brin
				ON payment_transactions USING BRIN (created_at)
				WITH (pages_per_range = 32)`,
		},
		{
			// Over-refund check sums active refunds per transaction
			name: "idx_refunds_transaction_status",
			sql: `CREATE INDEX IF NOT EXISTS idx_refunds_transaction_status
				ON refunds (transaction_id, status)`,
		},
		{
			// Repeat-offender signal counts active alerts per user in a window
			name: "idx_fraud_alerts_user_active",
			sql: `CREATE INDEX IF NOT EXISTS idx_fraud_alerts_user_active
				ON fraud_alerts (user_id, created_at)
				WHERE status = 'ACTIVE'`,
		},
		{
			name: "idx_payment_audit_log_created_at_brin",
			sql: `CREATE INDEX IF NOT EXISTS idx_payment_audit_log_created_at_brin
				ON payment_audit_log USING BRIN (created_at)
				WITH (pages_per_range = 32)`,
		},
	}

	for _, stmt := range statements {
		if err := m.db.Exec(stmt.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("PostgreSQL indexes created successfully", nil)
	return nil
}

// ApplyPerformanceTweaks applies PostgreSQL storage tweaks. Failures are
// logged but not fatal.
func (m *IndexManager) ApplyPerformanceTweaks() error {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	if err := m.db.Exec(`ALTER TABLE payment_transactions SET (fillfactor = 90)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for payment_transactions", map[string]any{
			"error": err.Error(),
		})
	}

	if err := m.db.Exec(`ALTER TABLE payment_transactions ALTER COLUMN user_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for user_id", map[string]any{
			"error": err.Error(),
		})
	}

	return nil
}
