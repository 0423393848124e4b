package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/akeren/choosepure-waitlist/config"
	"github.com/akeren/choosepure-waitlist/domain/admin"
	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/pkg/migrations"
	"github.com/akeren/choosepure-waitlist/pkg/utils"
	"github.com/spf13/cobra"
)

const commandTimeout = 5 * time.Minute

var logger = log.NewLoggerWithJSONOutput()

var rootCmd = &cobra.Command{
	Use:           "cli",
	Short:         "Operational commands for the ChoosePure waitlist service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.InitializeEnvFile(logger)
	},
}

func main() {
	rootCmd.AddCommand(newMigrateCmd(), newCreateAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", "error", err.Error())
		os.Exit(1)
	}
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage SQL schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQLDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				return migrations.Up(ctx, db, migrationsConfig())
			})
		},
	})

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQLDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				return migrations.Down(ctx, db, migrationsConfig(), steps)
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(downCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQLDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				version, dirty, err := migrations.Version(ctx, db, migrationsConfig())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})

	return migrateCmd
}

func newCreateAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an admin account",
		Long:  "Provision an admin account. The password may be supplied with --password or the ADMIN_PASSWORD environment variable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if password == "" {
				return errors.New("a password is required via --password or ADMIN_PASSWORD")
			}

			return withConnection(cmd.Context(), func(ctx context.Context, conn *database.Connection) error {
				service := admin.NewAdminService(logger, admin.NewAdminRepository(conn), nil, nil, admin.Config{})

				created, err := service.ProvisionAdmin(ctx, name, email, password)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "admin created: id=%d email=%s\n", created.ID, created.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func migrationsConfig() migrations.Config {
	return migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Logger: logger,
	}
}

// withConnection dials once and gives up instead of retrying in the background.
func withConnection(parent context.Context, fn func(context.Context, *database.Connection) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()

	conn, err := config.NewDatabaseConnection(logger, config.NewDBConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err.Error())
		}
	}()

	if err := conn.Connect(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	return fn(ctx, conn)
}

func withSQLDB(parent context.Context, fn func(context.Context, *sql.DB) error) error {
	return withConnection(parent, func(ctx context.Context, conn *database.Connection) error {
		db, err := conn.DB(ctx)
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get SQL DB instance: %w", err)
		}

		return fn(ctx, sqlDB)
	})
}
