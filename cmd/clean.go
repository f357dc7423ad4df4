package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"market-scraper/models"
	"market-scraper/services"
)

func newCleanCmd(a *app) *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Merge the latest raw files into the canonical dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if policy != "" {
				a.cfg.MergePolicy = strings.ToLower(policy)
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			_, err := a.clean(cmd.Context())
			return err
		},
	}

	cmd.Flags().StringVar(&policy, "merge-policy", "", "abort or available (overrides MERGE_POLICY)")
	return cmd
}

func (a *app) clean(ctx context.Context) (*models.CleanReport, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	cleaner := services.NewCleaner(a.cfg, a.logger)
	if store != nil {
		defer store.Close()
		cleaner.AddSink(store)
	}

	a.logger.Info("=== Merge & clean: %s → %s (policy %s, floor %.2f, rate %.2f) ===",
		a.cfg.RawDir, a.cfg.OutputPath(), a.cfg.MergePolicy, a.cfg.PriceFloor, a.cfg.ExchangeRate)
	return cleaner.Run(ctx)
}
