package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"xchain-backend/internal/config"
	"xchain-backend/internal/db"
	"xchain-backend/internal/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and run pending data migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			log := logger.Setup(cfg.Log)

			if err := db.InitDB(cfg); err != nil {
				return err
			}
			if sqlDB, err := db.DB.DB(); err == nil {
				defer sqlDB.Close()
			}
			log.Info("✅ migrations complete")
			return nil
		},
	}
}
