package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type migrator interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(sourceURL string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string
	MigrationsTable string
	Logger          Logger
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "migrations"
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}
}

func (cfg *Config) info(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Info(msg, args...)
	}
}

func (cfg *Config) warn(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Warn(msg, args...)
	}
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	return withMigrator(ctx, db, &cfg, func(m migrator) error {
		cfg.info("Running SQL migrations", "dir", cfg.Dir, "table", cfg.MigrationsTable)

		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				cfg.info("No migrations to apply")
				return nil
			}
			return fmt.Errorf("migrations: up: %w", err)
		}

		cfg.info("Migrations applied successfully")
		return nil
	})
}

// Down rolls back the given number of applied migrations.
func Down(ctx context.Context, db *sql.DB, cfg Config, steps int) error {
	if steps < 1 {
		return fmt.Errorf("migrations: down requires at least one step, got %d", steps)
	}

	return withMigrator(ctx, db, &cfg, func(m migrator) error {
		cfg.info("Rolling back SQL migrations", "steps", steps)

		if err := m.Steps(-steps); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				cfg.info("No migrations to roll back")
				return nil
			}
			return fmt.Errorf("migrations: down: %w", err)
		}

		cfg.info("Migrations rolled back successfully", "steps", steps)
		return nil
	})
}

// Version reports the applied schema version. A database with no migrations
// yields version 0.
func Version(ctx context.Context, db *sql.DB, cfg Config) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)

	err := withMigrator(ctx, db, &cfg, func(m migrator) error {
		v, d, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				return nil
			}
			return fmt.Errorf("migrations: version: %w", err)
		}
		version, dirty = v, d
		return nil
	})

	return version, dirty, err
}

func sourceURLFor(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps Windows paths valid inside a file:// URL.
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(absDir)}).String(), nil
}

// withMigrator runs fn on its own goroutine so ctx can interrupt it; migrate
// has no context support, so cancellation closes the migrator.
func withMigrator(ctx context.Context, db *sql.DB, cfg *Config, fn func(migrator) error) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg.applyDefaults()

	sourceURL, err := sourceURLFor(cfg.Dir)
	if err != nil {
		return err
	}

	driver, err := driverFactory(db, *cfg)
	if err != nil {
		return fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(sourceURL, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	var closeOnce sync.Once
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				cfg.warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				cfg.warn("Migrations db close error", "error", dbErr)
			}
		})
	}
	defer closeMigrator()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(m)
	}()

	select {
	case <-ctx.Done():
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
