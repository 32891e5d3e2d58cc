package cmd

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate [up|down|status]",
		Short: "Apply schema migrations from db/migrations",
		Args:  cobra.MaximumNArgs(1),
	}
	migrateDir string
)

func init() {
	migrateCmd.Flags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	action := "up"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "up", "down", "status":
	default:
		return fmt.Errorf("unknown migration action %q", action)
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetTableName("schema_migrations")

	if err := goose.RunContext(context.Background(), action, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", action, err)
	}
	return nil
}
