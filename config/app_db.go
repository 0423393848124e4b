package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/pkg/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver          string
	DatabaseURL     string
	MySQLDSN        string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // Default: "require" for prod safety

	ConnectTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func NewDBConfigFromEnv() *DBConfig {
	return &DBConfig{
		Driver:          strings.ToLower(utils.GetEnvTrimmedOrDefault("DB_DRIVER", DriverPostgres)),
		DatabaseURL:     secretEnv("APP_DATABASE_URL"),
		MySQLDSN:        secretEnv("MYSQL_DSN"),
		SQLitePath:      utils.GetEnvTrimmedOrDefault("SQLITE_PATH", "choosepure.db"),
		MaxIdleConns:    utils.GetEnvPositiveInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    utils.GetEnvPositiveInt("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: utils.GetEnvDuration("DB_CONN_MAX_LIFETIME", time.Minute),
		SSLMode:         "require",
		ConnectTimeout:  utils.GetEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		RetryAttempts:   utils.GetEnvPositiveInt("DB_RETRY_ATTEMPTS", 5),
		RetryDelay:      utils.GetEnvDuration("DB_RETRY_DELAY", 5*time.Second),
	}
}

// NewDatabaseConnection validates configuration eagerly (a bad DSN is fatal)
// but leaves dialing to Connection.Connect.
func NewDatabaseConnection(logger *log.Logger, cfg *DBConfig) (*database.Connection, error) {
	if cfg == nil {
		cfg = NewDBConfigFromEnv()
	}

	dialector, err := buildDialector(logger, cfg)
	if err != nil {
		return nil, err
	}

	opener := func(ctx context.Context) (*gorm.DB, error) {
		gdb, err := gorm.Open(dialector, &gorm.Config{
			TranslateError:       true,
			DisableAutomaticPing: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}

		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

		return gdb, nil
	}

	return database.NewConnection(opener, logger, database.Options{
		ConnectTimeout: cfg.ConnectTimeout,
		RetryAttempts:  cfg.RetryAttempts,
		RetryDelay:     cfg.RetryDelay,
	}), nil
}

func buildDialector(logger *log.Logger, cfg *DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverPostgres:
		dsn, err := buildPostgresDSN(logger, cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil

	case DriverMySQL:
		dsn := cfg.MySQLDSN
		if dsn == "" {
			dsn = cfg.DatabaseURL
		}
		if dsn == "" {
			return nil, fmt.Errorf("missing required database env vars: MYSQL_DSN")
		}
		logger.Info("Using MySQL database driver")
		return mysql.Open(dsn), nil

	case DriverSQLite:
		logger.Info("Using SQLite database driver", "path", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (allowed: postgres, mysql, sqlite)", cfg.Driver)
	}
}

func buildPostgresDSN(logger *log.Logger, cfg *DBConfig) (string, error) {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return cfg.DatabaseURL, nil
	}

	host, portStr, user, pass, dbName, ssl := getDatabaseEnvParams()
	if ssl == "" {
		ssl = cfg.SSLMode
	}

	missing := []string{}
	if host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if portStr == "" {
		missing = append(missing, "POSTGRES_PORT")
	}
	if user == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if dbName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}

	if len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		logger.Error("Invalid POSTGRES_PORT", "error", err)
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", portStr, err)
	}

	logger.Info("Connecting to database",
		"host", host,
		"port", port,
		"user", user,
		"dbname", dbName,
		"sslmode", ssl,
	)

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbName, ssl,
	), nil
}

func getDatabaseEnvParams() (host, port, user, pass, dbName, ssl string) {
	host = secretEnv("POSTGRES_HOST")
	port = secretEnv("POSTGRES_PORT")
	user = secretEnv("POSTGRES_USER")
	pass = secretEnv("POSTGRES_PASSWORD")
	dbName = secretEnv("POSTGRES_DB_NAME")
	ssl = secretEnv("POSTGRES_SSLMODE")

	return host, port, user, pass, dbName, ssl
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}
