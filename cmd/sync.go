package cmd

import (
	"context"
	"log"
	"time"

	"github.com/danass/leha/core/config"
	"github.com/danass/leha/core/database"
	"github.com/danass/leha/core/logger"
	"github.com/danass/leha/core/storage"
	"github.com/danass/leha/feature/registry/fetch"
	"github.com/danass/leha/feature/registry/store"
	"github.com/danass/leha/feature/registry/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDryRun  bool
	syncArchive string
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the registry against the latest published snapshot",
	Long: `Downloads the latest RNCP CSV export, diffs it against the registry
database and applies the minimal set of inserts, updates and deletes.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.DB)
		if err != nil {
			logg.Fatal("Failed to connect to registry database", zap.Error(err))
		}

		// 4. Provision schema so a first run starts from an empty store
		st := store.New(db)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := st.Provision(ctx); err != nil {
			logg.Fatal("Failed to provision registry schema", zap.Error(err))
		}

		// 5. Build the runner
		source := fetch.NewClient(
			cfg.Source.DatasetURL,
			cfg.Source.ResourceTitle,
			time.Duration(cfg.Source.TimeoutSeconds)*time.Second,
		)
		runner := sync.NewRunner(st, source, cfg.Source.DownloadDir, logg)

		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			runner = runner.WithArchives(client, cfg.Storage)
		}

		// 6. Run the reconciliation
		report, err := runner.Run(ctx, sync.Options{
			DryRun:      syncDryRun,
			ArchivePath: syncArchive,
		})
		if err != nil {
			logg.Fatal("Reconciliation failed", zap.Error(err))
		}
		if report.Failed() {
			logg.Fatal("Reconciliation left entities unapplied")
		}
		logg.Info("Reconciliation complete")
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "compute and report the plan without applying it")
	syncCmd.Flags().StringVar(&syncArchive, "archive", "", "reconcile from a local export archive instead of downloading")
	RootCmd.AddCommand(syncCmd)
}
