package infra

import (
	"fmt"

	"github.com/RamsesGirala/machinery-ops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies idempotent SQL patches that
// GORM cannot express.
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

// RunMigrations creates the schema. Also used by integration tests against
// a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() lives in pgcrypto on PostgreSQL < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.MachineBase{},
		&model.Accessory{},
		&model.Tax{},
		&model.LogisticsLeg{},
		&model.Budget{},
		&model.BudgetItem{},
		&model.BudgetItemAccessory{},
		&model.BudgetTaxApplied{},
		&model.BudgetSelectedLogisticsLeg{},
		&model.Purchase{},
		&model.PurchasedUnit{},
		&model.RevenueEvent{},
		&model.RevenueEventUnit{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully
// handle on its own. Each statement uses IF NOT EXISTS semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index for the open-rental lookup on FinalizarAlquiler.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_revenue_event_alquiler_abierto') THEN
		    CREATE INDEX idx_revenue_event_alquiler_abierto
		        ON revenue_event (fecha DESC, created_at DESC)
		        WHERE tipo = 'ALQUILER' AND fecha_retorno_real IS NULL;
		  END IF;
		END $$`,
		// Partial index for the finance rollup over closed rentals.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_revenue_event_retorno_real') THEN
		    CREATE INDEX idx_revenue_event_retorno_real
		        ON revenue_event (fecha_retorno_real)
		        WHERE fecha_retorno_real IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch: %w", err)
		}
	}
	return nil
}
