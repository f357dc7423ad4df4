package scraper

import (
	"context"
	"fmt"
	"path/filepath"

	"market-scraper/models"
	"market-scraper/storage"
	"market-scraper/utils"
)

// CollectResult summarises one collection run for a site.
type CollectResult struct {
	Source   models.Source
	Files    []string
	Listings int
	Stats    models.ExtractionStats
}

// Collect scrapes every keyword concurrently and writes one raw CSV per
// keyword into RawDir. With global set, all keywords are also concatenated
// into the source's global file, in keyword order.
func (s *Scraper) Collect(ctx context.Context, keywords []string, global bool) (*CollectResult, error) {
	type outcome struct {
		listings []models.RawListing
		stats    models.ExtractionStats
		file     string
		err      error
	}
	results := make([]outcome, len(keywords))

	pool := utils.NewWorkerPool(s.cfg.MaxConcurrency, s.cfg.RateLimitMs)
	for i, kw := range keywords {
		i, kw := i, kw
		pool.Submit(ctx, func(ctx context.Context) {
			listings, stats, err := s.Scrape(ctx, kw)
			results[i] = outcome{listings: listings, stats: stats, err: err}
			if err != nil || len(listings) == 0 {
				return
			}
			path := filepath.Join(s.cfg.RawDir, storage.RawFileName(s.site.Source, kw, s.now()))
			results[i].file = path
			results[i].err = writeRaw(path, s.site.Source, listings)
		})
	}
	pool.Wait()

	res := &CollectResult{Source: s.site.Source}
	var all []models.RawListing
	for i, r := range results {
		if r.err != nil {
			return res, fmt.Errorf("scraper: %s %q: %w", s.site.Source, keywords[i], r.err)
		}
		res.Stats.Add(r.stats)
		res.Listings += len(r.listings)
		if r.file != "" {
			res.Files = append(res.Files, r.file)
		}
		all = append(all, r.listings...)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if global && len(all) > 0 {
		path := filepath.Join(s.cfg.RawDir, storage.GlobalFileName(s.site.Source))
		if err := writeRaw(path, s.site.Source, all); err != nil {
			return res, fmt.Errorf("scraper: %s global: %w", s.site.Source, err)
		}
		res.Files = append(res.Files, path)
	}

	s.logger.Info("%s Collected %d listings into %d files (%s)", s.tag(), res.Listings, len(res.Files), res.Stats)
	return res, nil
}

func writeRaw(path string, source models.Source, listings []models.RawListing) error {
	w, err := storage.NewCSVWriter(path, source)
	if err != nil {
		return err
	}
	if err := w.WriteRaw(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
