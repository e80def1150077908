package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationsPath returns the migration source for driver. Unknown drivers fall back to
// the PostgreSQL set and fail when the connection string is opened.
func migrationsPath(driver string) string {
	if driver == "mysql" {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}

// RunMigrations applies every pending migration for the users and vault_items tables.
// Returns nil if there is nothing to apply.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	logger.Info("running database migrations",
		slog.String("driver", dbDriver),
	)

	m, err := migrate.New(migrationsPath(dbDriver), dbConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
