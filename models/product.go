package models

// Source identifies the marketplace a listing was collected from.
type Source string

const (
	SourceAmazon Source = "Amazon"
	SourceJumia  Source = "Jumia"
)

// Key is the lower-case token used in raw file names ("amazon", "jumia").
func (s Source) Key() string {
	switch s {
	case SourceAmazon:
		return "amazon"
	case SourceJumia:
		return "jumia"
	}
	return string(s)
}

// Sources lists every supported marketplace in merge order.
var Sources = []Source{SourceAmazon, SourceJumia}

// Category values produced by the category classifier.
const (
	CategorySmartphone = "smartphone"
	CategoryAccessory  = "accessoire"
	CategoryOther      = "other"
)

// UnknownBrand is returned when no brand rule matches a title.
const UnknownBrand = "Unknown"

// NoRating marks a product without a customer rating in the final dataset.
const NoRating = -1.0

// Raw column names as written by the collection layer.
const (
	RawTitle         = "titre"
	RawPrice         = "prix"
	RawPriceText     = "prix_brut"
	RawOriginalPrice = "prix_original"
	RawDiscount      = "reduction"
	RawRating        = "note"
	RawReviewCount   = "nombre_avis"
	RawSeller        = "vendeur"
	RawPrime         = "prime"
	RawAvailability  = "disponibilite"
	RawLink          = "lien"
	RawASIN          = "asin"
	RawNativeID      = "id_produit"
	RawImage         = "image_url"
	RawCapturedAt    = "date_scraping"
	RawSource        = "source"
)

// RawListing holds one product card exactly as captured, keyed by raw column
// name. Any key may be missing.
type RawListing map[string]string

// Get returns the value for key, or "" when absent.
func (r RawListing) Get(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}

// Has reports whether the key was captured at all.
func (r RawListing) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Canonical column names of the unified schema.
const (
	ColID       = "id_produit"
	ColTitle    = "titre"
	ColPrice    = "prix"
	ColRating   = "note"
	ColReviews  = "nb_avis"
	ColLink     = "lien"
	ColSource   = "source"
	ColDate     = "date"
	ColBrand    = "brand"
	ColCategory = "category"

	// ColSentiment is added by downstream enrichment, never by the cleaner.
	ColSentiment = "sentiment_score"
)

// CanonicalColumns is the column order of the canonical dataset.
var CanonicalColumns = []string{
	ColID, ColTitle, ColPrice, ColRating, ColReviews,
	ColLink, ColSource, ColDate, ColBrand, ColCategory,
}

// ProductRecord is one standardized listing in the canonical schema.
// Nil pointers mean the value could not be determined.
type ProductRecord struct {
	ID       string
	Title    string
	Price    *float64
	Rating   *float64
	Reviews  *int
	Link     string
	Source   Source
	Date     string
	Brand    string
	Category string

	// Sentiment is only set when reading a dataset that carries ColSentiment.
	Sentiment *float64
}

// Table is an ordered set of records plus the canonical columns present in it.
type Table struct {
	Columns []string
	Records []ProductRecord
}

// Len returns the number of records, tolerating a nil table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether the column is part of the table schema.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// UnionColumns merges column sets, keeping canonical order.
func UnionColumns(sets ...[]string) []string {
	present := make(map[string]bool)
	for _, set := range sets {
		for _, c := range set {
			present[c] = true
		}
	}
	out := make([]string, 0, len(present))
	for _, c := range CanonicalColumns {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
