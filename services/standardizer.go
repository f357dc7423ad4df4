package services

import (
	"strings"

	"market-scraper/classify"
	"market-scraper/models"
	"market-scraper/normalize"
	"market-scraper/utils"
)

// sourceSchema describes where a source keeps each canonical field.
type sourceSchema struct {
	id       string
	reviews  string
	convert  bool
	noReview bool
}

var schemas = map[models.Source]sourceSchema{
	models.SourceAmazon: {id: models.RawASIN, reviews: models.RawReviewCount},
	models.SourceJumia:  {id: models.RawNativeID, reviews: models.RawReviewCount, convert: true, noReview: true},
}

// Standardizer maps raw listings of one source into the canonical schema.
type Standardizer struct {
	logger       *utils.Logger
	exchangeRate float64
	brands       *classify.BrandClassifier
	categories   *classify.CategoryClassifier
}

// NewStandardizer creates a Standardizer converting Jumia prices with
// exchangeRate local units per reference unit.
func NewStandardizer(logger *utils.Logger, exchangeRate float64) *Standardizer {
	return &Standardizer{
		logger:       logger,
		exchangeRate: exchangeRate,
		brands:       classify.NewBrandClassifier(),
		categories:   classify.NewCategoryClassifier(),
	}
}

// Standardize converts rows into a canonical table. Rows without a title are
// dropped. Columns the source never captured are left out of the schema.
func (s *Standardizer) Standardize(source models.Source, rows []models.RawListing) (*models.Table, models.StandardizeStats) {
	schema := schemas[source]
	stats := models.StandardizeStats{Input: len(rows)}
	table := &models.Table{
		Columns: s.columns(schema, rows),
		Records: make([]models.ProductRecord, 0, len(rows)),
	}

	for _, r := range rows {
		title := strings.TrimSpace(r.Get(models.RawTitle))
		if title == "" {
			stats.DroppedNoTitle++
			continue
		}

		price := normalize.Price(r.Get(models.RawPrice))
		if schema.convert {
			price = normalize.Convert(price, s.exchangeRate)
		}
		if price == nil {
			stats.UnparsedPrice++
		}

		var reviews *int
		if schema.noReview && !r.Has(schema.reviews) {
			reviews = models.Int(0)
		} else {
			reviews = normalize.ReviewCount(r.Get(schema.reviews))
		}

		table.Records = append(table.Records, models.ProductRecord{
			ID:       strings.TrimSpace(r.Get(schema.id)),
			Title:    title,
			Price:    price,
			Rating:   normalize.Rating(r.Get(models.RawRating)),
			Reviews:  reviews,
			Link:     strings.TrimSpace(r.Get(models.RawLink)),
			Source:   source,
			Date:     strings.TrimSpace(r.Get(models.RawCapturedAt)),
			Brand:    s.brands.Classify(title),
			Category: s.categories.Classify(title),
		})
	}
	stats.Emitted = len(table.Records)

	s.logger.Info("[standardize] %s: %d rows → %d records (no title: %d, unparsed price: %d)",
		source, stats.Input, stats.Emitted, stats.DroppedNoTitle, stats.UnparsedPrice)
	return table, stats
}

// columns lists the canonical columns this source can populate. Derived
// columns are always present; captured ones only when some row carries them.
func (s *Standardizer) columns(schema sourceSchema, rows []models.RawListing) []string {
	captured := func(key string) bool {
		for _, r := range rows {
			if r.Has(key) {
				return true
			}
		}
		return false
	}

	present := map[string]bool{
		models.ColTitle:    true,
		models.ColPrice:    true,
		models.ColRating:   true,
		models.ColReviews:  true,
		models.ColSource:   true,
		models.ColBrand:    true,
		models.ColCategory: true,
	}
	if captured(schema.id) {
		present[models.ColID] = true
	}
	if captured(models.RawLink) {
		present[models.ColLink] = true
	}
	if captured(models.RawCapturedAt) {
		present[models.ColDate] = true
	}

	cols := make([]string, 0, len(present))
	for _, c := range models.CanonicalColumns {
		if present[c] {
			cols = append(cols, c)
		}
	}
	return cols
}
