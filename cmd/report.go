package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"market-scraper/services"
)

type reportOptions struct {
	brands     []string
	categories []string
	minScore   float64
	maxScore   float64
}

func newReportCmd(a *app) *cobra.Command {
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print insights over the canonical dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := services.DatasetFilter{Brands: opts.brands, Categories: opts.categories}
			if cmd.Flags().Changed("min-score") || cmd.Flags().Changed("max-score") {
				filter.Score = &services.ScoreRange{Min: opts.minScore, Max: opts.maxScore}
			}
			return a.report(cmd.Context(), cmd, filter)
		},
	}

	cmd.Flags().StringSliceVar(&opts.brands, "brand", nil, "only these brands (repeatable)")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "only these categories (repeatable)")
	cmd.Flags().Float64Var(&opts.minScore, "min-score", 1, "minimum sentiment score, or rating when the dataset has none")
	cmd.Flags().Float64Var(&opts.maxScore, "max-score", 5, "maximum sentiment score, or rating when the dataset has none")
	return cmd
}

func (a *app) report(ctx context.Context, cmd *cobra.Command, filter services.DatasetFilter) error {
	dataset, err := a.loadDataset(ctx)
	if err != nil {
		return err
	}

	insights := services.NewInsightService(a.logger)
	insights.Print(cmd.OutOrStdout(), insights.Generate(dataset.Filter(filter)))
	return nil
}

// loadDataset reads the dataset back from the database backend when one is
// configured, falling back to the CSV artifact.
func (a *app) loadDataset(ctx context.Context) (*services.Dataset, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		a.logger.Warn("[report] %s backend unavailable, reading %s: %v", a.cfg.StorageBackend, a.cfg.OutputPath(), err)
	}
	if store != nil {
		defer store.Close()
		table, err := store.FetchAll()
		if err == nil {
			return services.NewDataset(table), nil
		}
		a.logger.Warn("[report] Failed to fetch products from %s, reading %s: %v", a.cfg.StorageBackend, a.cfg.OutputPath(), err)
	}

	dataset, err := services.LoadDataset(a.cfg.OutputPath())
	if err != nil {
		return nil, fmt.Errorf("report: %w (run `market-scraper clean` first)", err)
	}
	return dataset, nil
}
