// Package scraper drives a browser through marketplace search results and
// feeds every result card to the matching field extractor.
package scraper

import (
	"context"
	"fmt"
	"time"

	"market-scraper/config"
	"market-scraper/extract"
	"market-scraper/models"
	"market-scraper/utils"
)

// Site describes how to crawl one marketplace.
type Site struct {
	Source       models.Source
	SearchURL    func(keyword string, page int) string
	CardSelector string
	NextSelector string
	Dismiss      []string
	Extract      func(fragment string, capturedAt time.Time) extract.Result
	// Key identifies a listing across pages and keywords.
	Key func(l models.RawListing) string
}

// Fetcher loads one search page and returns its card fragments.
type Fetcher interface {
	Cards(ctx context.Context, site *Site, pageURL string) (cards []string, hasNext bool, err error)
}

// Scraper collects raw listings from one site.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	site    *Site
	fetcher Fetcher
	retry   *utils.RetryConfig
	seen    *utils.KeySet
	now     func() time.Time
}

// New creates a Scraper for site using fetcher to load pages.
func New(cfg *config.Config, logger *utils.Logger, site *Site, fetcher Fetcher) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		site:    site,
		fetcher: fetcher,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		seen: utils.NewKeySet(),
		now:  time.Now,
	}
}

// Source returns the marketplace this scraper collects from.
func (s *Scraper) Source() models.Source { return s.site.Source }

func (s *Scraper) tag() string { return "[" + s.site.Source.Key() + "]" }

// Scrape walks up to PagesToScrape result pages for keyword. A failing page
// ends pagination but keeps what was already collected. Listings already seen
// by this scraper, on any keyword, are skipped.
func (s *Scraper) Scrape(ctx context.Context, keyword string) ([]models.RawListing, models.ExtractionStats, error) {
	var (
		listings []models.RawListing
		stats    models.ExtractionStats
	)
	s.logger.Info("%s Searching %q, up to %d pages", s.tag(), keyword, s.cfg.PagesToScrape)

	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		pageURL := s.site.SearchURL(keyword, page)

		var (
			cards   []string
			hasNext bool
		)
		err := s.retry.Do(ctx, fmt.Sprintf("%s page %d", s.site.Source.Key(), page), func(ctx context.Context) error {
			var err error
			cards, hasNext, err = s.fetcher.Cards(ctx, s.site, pageURL)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return listings, stats, ctx.Err()
			}
			s.logger.Error("%s Page %d failed: %v", s.tag(), page, err)
			break
		}
		stats.Pages++

		if len(cards) == 0 {
			s.logger.Warn("%s Page %d returned 0 cards, stopping", s.tag(), page)
			break
		}

		capturedAt := s.now()
		before := len(listings)
		for _, card := range cards {
			res := s.site.Extract(card, capturedAt)
			res.Record(&stats)
			if res.Outcome != extract.Accepted {
				continue
			}
			if !s.seen.Add(s.site.Key(res.Listing)) {
				continue
			}
			listings = append(listings, res.Listing)
		}
		s.logger.Info("%s Page %d: %d cards, %d new listings (%d so far)",
			s.tag(), page, len(cards), len(listings)-before, len(listings))

		if !hasNext || page == s.cfg.PagesToScrape {
			break
		}
		if !sleep(ctx, time.Duration(s.cfg.RateLimitMs)*time.Millisecond) {
			return listings, stats, ctx.Err()
		}
	}

	s.logger.Info("%s %q done: %s", s.tag(), keyword, stats)
	return listings, stats, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
