package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed the settings row",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := logger.Init(cfg.Log); err != nil {
			return err
		}

		gdb, err := db.Init(cfg.DB)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		log.Info().Str("db_driver", cfg.DB.Driver).Msg("database migrated")
		return nil
	},
}
