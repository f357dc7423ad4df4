package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"market-scraper/models"
	"market-scraper/utils"
)

const topRatedCount = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the KPI report over d.
func (s *InsightService) Generate(d *Dataset) *models.InsightReport {
	report := &models.InsightReport{BySource: make(map[models.Source]int)}
	if d.Len() == 0 {
		s.logger.Warn("[insights] Dataset is empty")
		return report
	}

	records := d.Records()
	report.TotalProducts = len(records)

	var prices []float64
	var ratingSum float64
	var rated []models.ProductRecord
	for i := range records {
		r := &records[i]
		report.BySource[r.Source]++
		if r.Price != nil {
			prices = append(prices, *r.Price)
			if report.MostExpensive == nil || *r.Price > *report.MostExpensive.Price {
				report.MostExpensive = r
			}
		}
		if r.Rating != nil && *r.Rating != models.NoRating {
			ratingSum += *r.Rating
			rated = append(rated, *r)
		}
	}

	if len(prices) > 0 {
		sorted := append([]float64(nil), prices...)
		sort.Float64s(sorted)
		report.MinPrice = round2(sorted[0])
		report.MaxPrice = round2(sorted[len(sorted)-1])
		report.AveragePrice = round2(mean(prices))
		report.MedianPrice = round2(median(prices))
	}

	report.RatedProducts = len(rated)
	if len(rated) > 0 {
		report.AverageRating = round2(ratingSum / float64(len(rated)))
	}

	// ties broken by review count so well-reviewed products rank first
	sort.SliceStable(rated, func(i, j int) bool {
		if *rated[i].Rating != *rated[j].Rating {
			return *rated[i].Rating > *rated[j].Rating
		}
		return reviews(&rated[i]) > reviews(&rated[j])
	})
	if len(rated) > topRatedCount {
		rated = rated[:topRatedCount]
	}
	report.TopRated = rated

	report.ByBrand, _ = d.Aggregate(models.ColBrand)
	report.DistinctBrands = len(report.ByBrand)

	s.logger.Info("[insights] %d products, %d brands, %d rated", report.TotalProducts, report.DistinctBrands, report.RatedProducts)
	return report
}

// Print renders r as a console report.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 62)
	thin := strings.Repeat("─", 62)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 SMARTPHONE MARKET INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total products  : \033[1m%d\033[0m\n", r.TotalProducts)
	fmt.Fprintf(w, "  Distinct brands : \033[1m%d\033[0m\n", r.DistinctBrands)
	for _, src := range models.Sources {
		fmt.Fprintf(w, "  %-15s : \033[1m%d\033[0m\n", src, r.BySource[src])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalProducts > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f €\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Median price  : \033[1;32m%.2f €\033[0m\n", r.MedianPrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f €\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f €\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Product\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Title, 58))
		fmt.Fprintf(w, "  Brand  : %s (%s)\n", r.MostExpensive.Brand, r.MostExpensive.Source)
		fmt.Fprintf(w, "  Price  : \033[1;31m%.2f €\033[0m\n", *r.MostExpensive.Price)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top %d Highest Rated (%d rated, average %.2f)\033[0m\n", topRatedCount, r.RatedProducts, r.AverageRating)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Fprintf(w, "  No rated products found\n")
	}
	for i, p := range r.TopRated {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-44s \033[1;32m%.1f ★\033[0m (%d)\n",
			i+1, truncate(p.Title, 42), *p.Rating, reviews(&p))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price by Brand\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	byCount := append([]models.GroupStats(nil), r.ByBrand...)
	sort.SliceStable(byCount, func(i, j int) bool { return byCount[i].Count > byCount[j].Count })
	for _, g := range byCount {
		bar := strings.Repeat("█", min(g.Count, 30))
		fmt.Fprintf(w, "  %-12s %8.2f € (median %8.2f) %s %d\n", truncate(g.Key, 12), g.MeanPrice, g.MedianPrice, bar, g.Count)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func reviews(r *models.ProductRecord) int {
	if r.Reviews == nil {
		return 0
	}
	return *r.Reviews
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
