package database

import (
	"fmt"

	"invoicing-backend/models"
)

// Migrate applies idempotent schema migrations:
// - AutoMigrate (tables/columns/FK constraints from model tags)
// - Money column types (NUMERIC(12,2))
// - CHECK constraints (non-negative quantity and rate)
// - Idempotency keys unique index
// The CHECK/ALTER statements are Postgres-specific and are skipped on
// other dialects (tests run AutoMigrate against SQLite directly).
func Migrate() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.IdempotencyKey{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	if DB.Dialector.Name() != "postgres" {
		return nil
	}

	// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
	alters := []string{
		`ALTER TABLE invoices      ALTER COLUMN total    TYPE numeric(12,2)`,
		`ALTER TABLE invoice_items ALTER COLUMN rate     TYPE numeric(12,2)`,
		`ALTER TABLE invoice_items ALTER COLUMN tax_rate TYPE numeric(5,4)`,
	}
	for _, stmt := range alters {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
		}
	}

	// --- Helpful indexes (idempotent) ---
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_user ON invoices (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_created_by ON clients (created_by_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
	}
	for _, stmt := range indexes {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
		}
	}

	// --- Basic CHECK constraints (idempotent) ---
	checks := []string{
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint
				WHERE conrelid = 'invoice_items'::regclass
				  AND conname  = 'chk_invoice_items_quantity_nonneg'
			) THEN
				ALTER TABLE invoice_items
				ADD CONSTRAINT chk_invoice_items_quantity_nonneg
				CHECK (quantity >= 0);
			END IF;
		END $$;`,
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint
				WHERE conrelid = 'invoice_items'::regclass
				  AND conname  = 'chk_invoice_items_rate_nonneg'
			) THEN
				ALTER TABLE invoice_items
				ADD CONSTRAINT chk_invoice_items_rate_nonneg
				CHECK (rate >= 0);
			END IF;
		END $$;`,
	}
	for _, stmt := range checks {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("check constraint migration failed: %w", err)
		}
	}

	return nil
}
