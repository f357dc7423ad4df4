package services

import (
	"fmt"
	"math"
	"sort"

	"market-scraper/models"
	"market-scraper/storage"
)

// Dataset is a read-only view over the canonical dataset, offering the
// queries the reporting layer runs against it.
type Dataset struct {
	records      []models.ProductRecord
	hasSentiment bool
}

// NewDataset wraps table. The table is not copied and must not be modified
// afterwards.
func NewDataset(table *models.Table) *Dataset {
	d := &Dataset{}
	if table != nil {
		d.records = table.Records
		d.hasSentiment = table.HasColumn(models.ColSentiment)
	}
	return d
}

// LoadDataset reads the canonical dataset file at path.
func LoadDataset(path string) (*Dataset, error) {
	table, err := storage.ReadDataset(path)
	if err != nil {
		return nil, err
	}
	return NewDataset(table), nil
}

// Len returns the number of products in the view.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the products in the view.
func (d *Dataset) Records() []models.ProductRecord { return d.records }

// Score is the sentiment score when the dataset carries one, otherwise the
// rating. The no-rating sentinel yields nil.
func (d *Dataset) Score(r *models.ProductRecord) *float64 {
	if d.hasSentiment {
		return r.Sentiment
	}
	if r.Rating == nil || *r.Rating == models.NoRating {
		return nil
	}
	return r.Rating
}

func groupKey(column string) (func(r *models.ProductRecord) string, error) {
	switch column {
	case models.ColBrand:
		return func(r *models.ProductRecord) string { return r.Brand }, nil
	case models.ColCategory:
		return func(r *models.ProductRecord) string { return r.Category }, nil
	case models.ColSource:
		return func(r *models.ProductRecord) string { return string(r.Source) }, nil
	}
	return nil, fmt.Errorf("dataset: cannot group by column %q", column)
}

// ListDistinct returns the sorted distinct values of column, which must be
// brand, category or source.
func (d *Dataset) ListDistinct(column string) ([]string, error) {
	key, err := groupKey(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range d.records {
		v := key(&d.records[i])
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// ScoreRange is an inclusive bound on Dataset.Score.
type ScoreRange struct {
	Min, Max float64
}

// DatasetFilter selects products. Empty sets and a nil range match everything.
type DatasetFilter struct {
	Brands     []string
	Categories []string
	Score      *ScoreRange
}

// Filter returns the products matching f, in dataset order. Products without
// a score never match a score range.
func (d *Dataset) Filter(f DatasetFilter) *Dataset {
	brands := toSet(f.Brands)
	categories := toSet(f.Categories)

	out := &Dataset{hasSentiment: d.hasSentiment}
	for i := range d.records {
		r := &d.records[i]
		if brands != nil && !brands[r.Brand] {
			continue
		}
		if categories != nil && !categories[r.Category] {
			continue
		}
		if f.Score != nil {
			s := d.Score(r)
			if s == nil || *s < f.Score.Min || *s > f.Score.Max {
				continue
			}
		}
		out.records = append(out.records, *r)
	}
	return out
}

// Aggregate groups products by column and summarises price and rating per
// group, sorted by group name.
func (d *Dataset) Aggregate(column string) ([]models.GroupStats, error) {
	key, err := groupKey(column)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]*models.ProductRecord)
	for i := range d.records {
		k := key(&d.records[i])
		groups[k] = append(groups[k], &d.records[i])
	}

	out := make([]models.GroupStats, 0, len(groups))
	for k, recs := range groups {
		out = append(out, d.summarise(k, recs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (d *Dataset) summarise(key string, recs []*models.ProductRecord) models.GroupStats {
	g := models.GroupStats{Key: key, Count: len(recs)}

	var prices []float64
	var ratingSum float64
	for _, r := range recs {
		if r.Price != nil {
			prices = append(prices, *r.Price)
		}
		if r.Rating != nil && *r.Rating != models.NoRating {
			ratingSum += *r.Rating
			g.RatedProducts++
		}
	}
	g.MeanPrice = round2(mean(prices))
	g.MedianPrice = round2(median(prices))
	if g.RatedProducts > 0 {
		g.MeanRating = round2(ratingSum / float64(g.RatedProducts))
	}
	return g
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
