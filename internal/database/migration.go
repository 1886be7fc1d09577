package database

import (
	"fmt"
	"path/filepath"

	"github.com/Cedhu-Sog/IT-CEDHU/internal/core/logger"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/database/migration"
)

// RunMigrations brings the schema up to date from migrationsDir. Called on
// server startup so a fresh deployment never serves against an unmigrated
// database.
func RunMigrations(dbURL string, migrationsDir string) error {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations directory: %w", err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	return migration.Migrate(dbURL, "file://"+absPath, false, log)
}
