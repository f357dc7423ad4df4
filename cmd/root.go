package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"market-scraper/config"
	"market-scraper/storage"
	"market-scraper/utils"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "market-scraper",
		Short:         "Collect, normalize and merge smartphone listings from Amazon and Jumia",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if logLevel != "" {
				a.cfg.LogLevel = logLevel
			}
			a.logger = utils.NewLogger()
			a.logger.SetLevel(utils.ParseLevel(a.cfg.LogLevel))
			return a.cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		newScrapeCmd(a),
		newCleanCmd(a),
		newReportCmd(a),
		newRunCmd(a),
	)
	return rootCmd
}

// openStore connects the database backend selected by STORAGE_BACKEND, or
// returns nil for the plain CSV backend.
func (a *app) openStore(ctx context.Context) (storage.DatasetStore, error) {
	switch a.cfg.StorageBackend {
	case "postgres":
		pw, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), a.logger)
		if err != nil {
			return nil, err
		}
		return pw, nil
	case "sqlite":
		sw, err := storage.NewSQLiteWriter(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sw, nil
	case "csv":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", a.cfg.StorageBackend)
}
