package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/treydbuddy/backend/internal/config"
	"github.com/treydbuddy/backend/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the MySQL migrations of the kv_store table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Storage.Backend != config.BackendMySQL {
			return fmt.Errorf("migrations only apply to the mysql backend, STORAGE_BACKEND is %s", cfg.Storage.Backend)
		}

		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		if err := logger.Init(level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		db, err := connectDB(cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Logger.Info("Running migrations...")
		if err := runMigrations(db); err != nil {
			return err
		}
		logger.Logger.Info("Migrations complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
