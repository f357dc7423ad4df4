package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"market-scraper/models"
)

// rawColumns is the column order of each source's raw CSV files.
var rawColumns = map[models.Source][]string{
	models.SourceAmazon: {
		models.RawTitle, models.RawPrice, models.RawOriginalPrice, models.RawDiscount,
		models.RawRating, models.RawReviewCount, models.RawSeller, models.RawPrime,
		models.RawAvailability, models.RawLink, models.RawASIN, models.RawImage,
		models.RawCapturedAt, models.RawSource,
	},
	models.SourceJumia: {
		models.RawCapturedAt, models.RawSource, models.RawTitle, models.RawPrice,
		models.RawPriceText, models.RawOriginalPrice, models.RawDiscount, models.RawRating,
		models.RawSeller, models.RawAvailability, models.RawLink, models.RawNativeID,
		models.RawImage,
	},
}

// RawColumns returns the raw CSV header for source.
func RawColumns(source models.Source) []string {
	return append([]string(nil), rawColumns[source]...)
}

// RawFileName builds "<source>_<keyword>_<timestamp>.csv".
func RawFileName(source models.Source, keyword string, at time.Time) string {
	kw := strings.ReplaceAll(strings.TrimSpace(keyword), " ", "_")
	return fmt.Sprintf("%s_%s_%s.csv", source.Key(), kw, at.Format("20060102_150405"))
}

// GlobalFileName is the concatenated per-source raw file name.
func GlobalFileName(source models.Source) string {
	return source.Key() + "_global.csv"
}

var _ RawListingWriter = (*CSVWriter)(nil)

// CSVWriter writes raw (uncleaned) listings of one source to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu      sync.Mutex
	file    *os.File
	writer  *csv.Writer
	columns []string
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the source's header row. Intermediate directories are created
// automatically.
func NewCSVWriter(path string, source models.Source) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	columns := RawColumns(source)
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, columns: columns}, nil
}

// WriteRaw appends listings to the file.
func (c *CSVWriter) WriteRaw(listings []models.RawListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := make([]string, len(c.columns))
		for i, col := range c.columns {
			row[i] = l.Get(col)
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
