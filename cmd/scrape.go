package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"market-scraper/models"
	"market-scraper/scraper"
	"market-scraper/scraper/amazon"
	"market-scraper/scraper/jumia"
)

func newScrapeCmd(a *app) *cobra.Command {
	var (
		source   string
		global   bool
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect raw listings into RAW_DIR",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(keywords) > 0 {
				a.cfg.Keywords = keywords
			}
			_, err := a.scrape(cmd.Context(), source, global)
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", "all", "amazon, jumia or all")
	cmd.Flags().BoolVar(&global, "global", false, "also write a <source>_global.csv concatenating every keyword")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "search keyword (repeatable, overrides KEYWORDS)")
	return cmd
}

func (a *app) scrape(ctx context.Context, source string, global bool) (models.ExtractionStats, error) {
	var total models.ExtractionStats

	browser := scraper.NewBrowser(a.cfg, a.logger)
	defer browser.Close()

	var scrapers []*scraper.Scraper
	switch strings.ToLower(source) {
	case "amazon":
		scrapers = append(scrapers, amazon.New(a.cfg, a.logger, browser))
	case "jumia":
		scrapers = append(scrapers, jumia.New(a.cfg, a.logger, browser))
	case "all", "":
		scrapers = append(scrapers, amazon.New(a.cfg, a.logger, browser), jumia.New(a.cfg, a.logger, browser))
	default:
		return total, fmt.Errorf("%w: unknown source %q", errUsage, source)
	}

	a.logger.Info("=== Scrape starting: keywords %v | pages %d | concurrency %d | rate %dms ===",
		a.cfg.Keywords, a.cfg.PagesToScrape, a.cfg.MaxConcurrency, a.cfg.RateLimitMs)

	for _, s := range scrapers {
		res, err := s.Collect(ctx, a.cfg.Keywords, global)
		if err != nil {
			return total, err
		}
		total.Add(res.Stats)
		if res.Listings == 0 {
			a.logger.Warn("[scrape] %s produced no listings", s.Source())
		}
		for _, f := range res.Files {
			a.logger.Info("[scrape] %s → %s", s.Source(), f)
		}
	}

	a.logger.Info("[scrape] Extraction totals: %s", total)
	return total, nil
}
