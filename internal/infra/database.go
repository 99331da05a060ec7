package infra

import (
	"fmt"

	"brazzero/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies idempotent SQL patches for DDL GORM cannot express (partial
// unique indexes, sequences).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates all tables and applies the schema patches.
// Also used by integration tests against a scratch database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.CustomerAddress{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.CashSession{},
		&model.CashExpense{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one open cash session, enforced at the data layer. The
		// application checks before insert; this index is the backstop that
		// turns a race between two openers into a unique violation.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_sessions_single_open
		     ON cash_sessions ((closed_at IS NULL))
		     WHERE closed_at IS NULL`,
		// Sequence behind order numbers; nextval is atomic under concurrency.
		`CREATE SEQUENCE IF NOT EXISTS orders_order_number_seq START 1`,
		// History queries: closed sessions ordered by close time.
		`CREATE INDEX IF NOT EXISTS idx_cash_sessions_closed_at
		     ON cash_sessions (closed_at DESC)
		     WHERE closed_at IS NOT NULL`,
		// Closure computation filters orders by session and status.
		`CREATE INDEX IF NOT EXISTS idx_orders_session_status
		     ON orders (cash_session_id, status)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
