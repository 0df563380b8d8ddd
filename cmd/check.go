package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/danass/leha/core/config"
	"github.com/danass/leha/core/database"
	"github.com/danass/leha/core/logger"
	"github.com/danass/leha/feature/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <numero_fiche>",
	Short: "Print one certification record with its related rows",
	Args:  cobra.ExactArgs(1),
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

		fiche, err := registry.NewService(db, logg).GetFiche(ctx, args[0])
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logg.Fatal("Fiche not found", zap.String("numero", args[0]))
			}
			logg.Fatal("Fiche lookup failed", zap.Error(err))
		}

		out, err := json.MarshalIndent(fiche, "", "  ")
		if err != nil {
			logg.Fatal("Failed to encode fiche", zap.Error(err))
		}
		fmt.Println(string(out))
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
