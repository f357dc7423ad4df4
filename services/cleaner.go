package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"market-scraper/config"
	"market-scraper/models"
	"market-scraper/storage"
	"market-scraper/utils"
)

// ErrSourceMissing is returned by Run when a source has no raw file and the
// merge policy does not allow proceeding without it.
var ErrSourceMissing = storage.ErrSourceMissing

// Cleaner merges standardized per-source tables into the canonical dataset.
type Cleaner struct {
	cfg          *config.Config
	logger       *utils.Logger
	standardizer *Standardizer
	sinks        []storage.DatasetWriter
}

// NewCleaner creates a Cleaner driven by cfg.
func NewCleaner(cfg *config.Config, logger *utils.Logger) *Cleaner {
	return &Cleaner{
		cfg:          cfg,
		logger:       logger,
		standardizer: NewStandardizer(logger, cfg.ExchangeRate),
	}
}

// AddSink registers an extra destination written after the CSV artifact.
func (c *Cleaner) AddSink(w storage.DatasetWriter) {
	c.sinks = append(c.sinks, w)
}

// step is one filter or transform of the merge stage. It returns the rows
// it keeps and how many it removed or changed.
type step struct {
	name  string
	apply func(rows []models.ProductRecord) ([]models.ProductRecord, int)
	count func(r *models.CleanReport) *int
}

func (c *Cleaner) steps() []step {
	s := []step{}
	if c.cfg.Dedupe {
		s = append(s, step{"duplicate", dropDuplicates, func(r *models.CleanReport) *int { return &r.Duplicates }})
	}
	return append(s,
		step{"missing price", keepWhere(func(p *models.ProductRecord) bool { return p.Price != nil }),
			func(r *models.CleanReport) *int { return &r.DroppedNoPrice }},
		step{"category", keepWhere(func(p *models.ProductRecord) bool { return p.Category == models.CategorySmartphone }),
			func(r *models.CleanReport) *int { return &r.DroppedCategory }},
		step{"price floor", keepWhere(func(p *models.ProductRecord) bool { return *p.Price >= c.cfg.PriceFloor }),
			func(r *models.CleanReport) *int { return &r.DroppedBelowFloor }},
		step{"unknown brand", keepWhere(func(p *models.ProductRecord) bool { return p.Brand != models.UnknownBrand }),
			func(r *models.CleanReport) *int { return &r.DroppedUnknownBrand }},
	)
}

// Merge concatenates a then b and applies the cleaning steps in order:
// dedupe (optional), missing price, category, price floor, unknown brand,
// then imputation of missing rating and review count. Either table may be
// nil when its source is absent; both being nil is an error.
func (c *Cleaner) Merge(a, b *models.Table) (*models.Table, *models.CleanReport, error) {
	if a == nil && b == nil {
		return nil, nil, errors.New("cleaner: no source table to merge")
	}

	report := models.NewCleanReport()
	out := &models.Table{Columns: mergedColumns(a, b)}

	rows := make([]models.ProductRecord, 0, a.Len()+b.Len())
	for _, t := range []*models.Table{a, b} {
		if t == nil {
			continue
		}
		rows = append(rows, t.Records...)
	}
	report.Merged = len(rows)

	for _, s := range c.steps() {
		if len(rows) == 0 {
			c.logger.Warn("[cleaner] No rows left before %s step, skipping", s.name)
			continue
		}
		var removed int
		rows, removed = s.apply(rows)
		*s.count(report) = removed
		c.logger.Debug("[cleaner] %s: removed %d, %d rows left", s.name, removed, len(rows))
	}

	for i := range rows {
		if rows[i].Rating == nil {
			rows[i].Rating = models.Float(models.NoRating)
			report.ImputedRating++
		}
		if rows[i].Reviews == nil {
			rows[i].Reviews = models.Int(0)
			report.ImputedReviews++
		}
		report.FinalBySource[rows[i].Source]++
	}
	report.Final = len(rows)
	if report.Final == 0 {
		c.logger.Warn("[cleaner] Merge produced an empty dataset")
	}

	out.Records = rows
	return out, report, nil
}

// Run discovers the raw file of every source, standardizes and merges them,
// then writes the canonical dataset. Nothing is written when it fails.
func (c *Cleaner) Run(ctx context.Context) (*models.CleanReport, error) {
	tables := make(map[models.Source]*models.Table, len(models.Sources))
	raw := make(map[models.Source]int, len(models.Sources))
	standardized := make(map[models.Source]models.StandardizeStats, len(models.Sources))
	var missing []models.Source

	for _, src := range models.Sources {
		path, err := storage.FindSourceFile(c.cfg.RawDir, src)
		if errors.Is(err, storage.ErrSourceMissing) {
			c.logger.Error("[cleaner] %v", err)
			missing = append(missing, src)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cleaner: %w", err)
		}

		c.logger.Info("[cleaner] %s: loading %s", src, path)
		rows, err := storage.LoadRawCSV(path)
		if err != nil {
			return nil, fmt.Errorf("cleaner: %w", err)
		}
		raw[src] = len(rows)
		tables[src], standardized[src] = c.standardizer.Standardize(src, rows)

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cleaner: %w", err)
		}
	}

	if len(missing) > 0 && (c.cfg.MergePolicy != config.MergeAvailable || len(missing) == len(models.Sources)) {
		return nil, fmt.Errorf("cleaner: %w: %s (merge policy %q)", ErrSourceMissing, joinSources(missing), c.cfg.MergePolicy)
	}
	for _, src := range missing {
		c.logger.Warn("[cleaner] Proceeding without %s (merge policy %q)", src, c.cfg.MergePolicy)
	}

	merged, report, err := c.Merge(tables[models.SourceAmazon], tables[models.SourceJumia])
	if err != nil {
		return nil, err
	}
	report.RawBySource = raw
	report.Standardized = standardized
	report.MissingSources = missing

	// sinks go first so a failing sink leaves the previous artifact in place
	for _, sink := range c.sinks {
		if err := sink.Write(merged); err != nil {
			return nil, fmt.Errorf("cleaner: sink: %w", err)
		}
	}

	path := c.cfg.OutputPath()
	if err := storage.WriteDataset(path, merged); err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}
	report.OutputPath = path

	c.logSummary(report)
	return report, nil
}

func (c *Cleaner) logSummary(r *models.CleanReport) {
	for _, src := range models.Sources {
		st := r.Standardized[src]
		c.logger.Info("[cleaner] %s: %d raw rows (%d without title, %d with unparsed price), %d in final dataset",
			src, r.RawBySource[src], st.DroppedNoTitle, st.UnparsedPrice, r.FinalBySource[src])
	}
	if r.Duplicates > 0 {
		c.logger.Info("[cleaner] %d duplicate rows removed", r.Duplicates)
	}
	c.logger.Info("[cleaner] %d rows dropped for missing price", r.DroppedNoPrice)
	c.logger.Info("[cleaner] %d rows dropped as non-smartphone", r.DroppedCategory)
	c.logger.Info("[cleaner] %d rows removed below price floor %.2f", r.DroppedBelowFloor, c.cfg.PriceFloor)
	c.logger.Info("[cleaner] %d rows dropped for unknown brand", r.DroppedUnknownBrand)
	c.logger.Info("[cleaner] %d ratings and %d review counts imputed", r.ImputedRating, r.ImputedReviews)
	c.logger.Info("[cleaner] Wrote %d products to %s", r.Final, r.OutputPath)
}

func keepWhere(keep func(p *models.ProductRecord) bool) func([]models.ProductRecord) ([]models.ProductRecord, int) {
	return func(rows []models.ProductRecord) ([]models.ProductRecord, int) {
		kept := rows[:0]
		for i := range rows {
			if keep(&rows[i]) {
				kept = append(kept, rows[i])
			}
		}
		return kept, len(rows) - len(kept)
	}
}

// dropDuplicates keeps the first row of each (source, id) pair. Rows without
// an id are always kept.
func dropDuplicates(rows []models.ProductRecord) ([]models.ProductRecord, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := rows[:0]
	for _, r := range rows {
		if r.ID != "" {
			key := string(r.Source) + "\x00" + r.ID
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		kept = append(kept, r)
	}
	return kept, len(rows) - len(kept)
}

func mergedColumns(a, b *models.Table) []string {
	sets := [][]string{{models.ColPrice, models.ColRating, models.ColReviews, models.ColBrand, models.ColCategory}}
	for _, t := range []*models.Table{a, b} {
		if t != nil {
			sets = append(sets, t.Columns)
		}
	}
	return models.UnionColumns(sets...)
}

func joinSources(sources []models.Source) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
