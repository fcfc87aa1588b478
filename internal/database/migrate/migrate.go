// Package migrate applies the SQL migrations under migrations/ with golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	appConfig "github.com/BhargavGarge/devpulse/internal/config"
)

// GetMigrationsPath returns MIGRATIONS_PATH, defaulting to "migrations".
func GetMigrationsPath() string {
	return appConfig.GetEnv("MIGRATIONS_PATH", "migrations")
}

// Migrate applies pending migrations from GetMigrationsPath.
func Migrate(db *gorm.DB) error {
	return MigrateFrom(db, GetMigrationsPath())
}

// MigrateFrom applies pending migrations found in dir to a PostgreSQL database.
func MigrateFrom(db *gorm.DB, dir string) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	migrationsPath, err := ResolvePath(dir)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// ResolvePath returns the absolute form of dir, failing when it does not exist.
func ResolvePath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("migrations directory does not exist: %s", abs)
	}
	return abs, nil
}
