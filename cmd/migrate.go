package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/grievance-management/db/migrations"
	"github.com/frahmantamala/grievance-management/internal"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory on disk; the embedded migrations are used when empty")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrate(ctx, db.DB, cfg.Database, migrateRollback, migrateDir)
}

// migrate applies every pending migration, or rolls back the latest one.
func migrate(ctx context.Context, db *sql.DB, cfg internal.DatabaseConfig, rollback bool, dir string) error {
	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		defer goose.SetBaseFS(nil)
		dir = "."
	}

	dialect := "postgres"
	if cfg.DriverName() == internal.DriverSQLite {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	goose.SetTableName("schema_migrations")

	command := "up"
	if rollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
