package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"market-scraper/models"
)

// WriteDataset writes table to path as UTF-8 CSV with a header row. The file
// is replaced atomically so readers never see a partial dataset.
func WriteDataset(path string, table *models.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("dataset: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("dataset: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encodeDataset(tmp, table); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("dataset: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("dataset: replace %s: %w", path, err)
	}
	return nil
}

func encodeDataset(w io.Writer, table *models.Table) error {
	columns := models.CanonicalColumns
	if table != nil && len(table.Columns) > 0 {
		columns = table.Columns
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}
	if table != nil {
		row := make([]string, len(columns))
		for i := range table.Records {
			for j, col := range columns {
				row[j] = Cell(&table.Records[i], col)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("dataset: write row %d: %w", i, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("dataset: flush: %w", err)
	}
	return nil
}

// Cell renders one column of a record the way it is stored on disk.
// Missing values render as "".
func Cell(r *models.ProductRecord, col string) string {
	switch col {
	case models.ColID:
		return r.ID
	case models.ColTitle:
		return r.Title
	case models.ColPrice:
		return formatFloat(r.Price)
	case models.ColRating:
		return formatFloat(r.Rating)
	case models.ColReviews:
		if r.Reviews == nil {
			return ""
		}
		return strconv.Itoa(*r.Reviews)
	case models.ColLink:
		return r.Link
	case models.ColSource:
		return string(r.Source)
	case models.ColDate:
		return r.Date
	case models.ColBrand:
		return r.Brand
	case models.ColCategory:
		return r.Category
	case models.ColSentiment:
		return formatFloat(r.Sentiment)
	}
	return ""
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ReadDataset loads a canonical dataset written by WriteDataset, or one
// enriched downstream with a sentiment column. Unknown columns are ignored.
func ReadDataset(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return &models.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	header = cleanHeader(header)

	table := &models.Table{Columns: models.UnionColumns(header)}
	for _, h := range header {
		if h == models.ColSentiment {
			table.Columns = append(table.Columns, models.ColSentiment)
		}
	}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
		}
		var p models.ProductRecord
		for i, col := range header {
			if err := setCell(&p, col, rec[i]); err != nil {
				return nil, fmt.Errorf("dataset: %s line %d: %w", path, line, err)
			}
		}
		table.Records = append(table.Records, p)
	}
	return table, nil
}

func setCell(r *models.ProductRecord, col, val string) error {
	val = strings.TrimSpace(val)
	switch col {
	case models.ColID:
		r.ID = val
	case models.ColTitle:
		r.Title = val
	case models.ColPrice:
		return parseFloat(val, col, &r.Price)
	case models.ColRating:
		return parseFloat(val, col, &r.Rating)
	case models.ColReviews:
		if val == "" {
			return nil
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			// pandas writes integer columns holding NaN as floats ("12.0")
			f, ferr := strconv.ParseFloat(val, 64)
			if ferr != nil {
				return fmt.Errorf("column %s: %w", col, err)
			}
			n = int(f)
		}
		r.Reviews = &n
	case models.ColLink:
		r.Link = val
	case models.ColSource:
		r.Source = models.Source(val)
	case models.ColDate:
		r.Date = val
	case models.ColBrand:
		r.Brand = val
	case models.ColCategory:
		r.Category = val
	case models.ColSentiment:
		return parseFloat(val, col, &r.Sentiment)
	}
	return nil
}

func parseFloat(val, col string, dst **float64) error {
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("column %s: %w", col, err)
	}
	*dst = &f
	return nil
}
