package models

import "fmt"

// ExtractionStats counts per-listing extraction outcomes for one run.
type ExtractionStats struct {
	Successful  int
	Failed      int
	Rejected    int
	FieldErrors int
	Pages       int
}

// Add accumulates other into s.
func (s *ExtractionStats) Add(other ExtractionStats) {
	s.Successful += other.Successful
	s.Failed += other.Failed
	s.Rejected += other.Rejected
	s.FieldErrors += other.FieldErrors
	s.Pages += other.Pages
}

func (s ExtractionStats) String() string {
	return fmt.Sprintf("pages=%d ok=%d rejected=%d failed=%d field_errors=%d",
		s.Pages, s.Successful, s.Rejected, s.Failed, s.FieldErrors)
}

// StandardizeStats summarises one standardizer call.
type StandardizeStats struct {
	Input          int
	Emitted        int
	DroppedNoTitle int
	UnparsedPrice  int
}

// CleanReport is the post-run summary of the merge and clean stage.
type CleanReport struct {
	RawBySource         map[Source]int
	Standardized        map[Source]StandardizeStats
	MissingSources      []Source
	Merged              int
	Duplicates          int
	DroppedNoPrice      int
	DroppedCategory     int
	DroppedBelowFloor   int
	DroppedUnknownBrand int
	ImputedRating       int
	ImputedReviews      int
	FinalBySource       map[Source]int
	Final               int
	OutputPath          string
}

// NewCleanReport returns a report with its maps initialised.
func NewCleanReport() *CleanReport {
	return &CleanReport{
		RawBySource:   make(map[Source]int),
		Standardized:  make(map[Source]StandardizeStats),
		FinalBySource: make(map[Source]int),
	}
}

// InsightReport holds the computed analytics over the canonical dataset.
type InsightReport struct {
	TotalProducts  int
	DistinctBrands int
	AveragePrice   float64
	MedianPrice    float64
	MinPrice       float64
	MaxPrice       float64
	AverageRating  float64
	RatedProducts  int
	MostExpensive  *ProductRecord
	TopRated       []ProductRecord
	BySource       map[Source]int
	ByBrand        []GroupStats
}

// GroupStats aggregates price and rating figures for one brand or category.
type GroupStats struct {
	Key           string
	Count         int
	MeanPrice     float64
	MedianPrice   float64
	MeanRating    float64
	RatedProducts int
}
