package database

import (
	"annualreports/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for the ledger models.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	if db.SQL == nil {
		return log.ErrMsg("attempt ledger is not configured")
	}

	log.Info("Starting database migration")

	modelsToMigrate := []any{
		&models.DownloadAttempt{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	if db.SQL == nil {
		return log.ErrMsg("attempt ledger is not configured")
	}

	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_download_attempts_run ON download_attempts(run_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_download_attempts_company_year ON download_attempts(company, year)",
		"CREATE INDEX IF NOT EXISTS idx_download_attempts_created_at ON download_attempts(created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			// Continue with other indexes even if one fails
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
