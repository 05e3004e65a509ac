package cmd

import (
	"fmt"

	"reconciler/core/config"
	"reconciler/core/database"
	"reconciler/core/logger"
	"reconciler/feature/reconciliation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the reconciliation tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the reconciliation database schema",
	Long: `Runs the schema migration for rulesets, jobs and results against the
configured database, then checks that the job and result tables expose every
column the service reads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := reconciliation.Migrate(db); err != nil {
			return err
		}

		l.Info("Database schema is up to date",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Name),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
