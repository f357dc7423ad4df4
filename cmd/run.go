package cmd

import (
	"github.com/spf13/cobra"

	"market-scraper/services"
)

func newRunCmd(a *app) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every source, clean, then print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.scrape(ctx, "all", global); err != nil {
				return err
			}
			if _, err := a.clean(ctx); err != nil {
				return err
			}
			return a.report(ctx, cmd, services.DatasetFilter{})
		},
	}

	cmd.Flags().BoolVar(&global, "global", true, "concatenate keywords into one raw file per source")
	return cmd
}
