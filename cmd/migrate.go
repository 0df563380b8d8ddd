package cmd

import (
	"context"
	"log"

	"github.com/danass/leha/core/config"
	"github.com/danass/leha/core/database"
	"github.com/danass/leha/core/logger"
	"github.com/danass/leha/feature/registry/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Provision or update the registry schema",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.DB)
		if err != nil {
			logg.Fatal("Failed to connect to registry database", zap.Error(err))
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := store.New(db).Provision(ctx); err != nil {
			logg.Fatal("Failed to provision registry schema", zap.Error(err))
		}
		logg.Info("Registry schema up to date", zap.String("database", cfg.DB.Name))
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
