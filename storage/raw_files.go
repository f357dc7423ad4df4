package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"market-scraper/models"
)

// ErrSourceMissing is returned when no raw file exists for a source.
var ErrSourceMissing = errors.New("no raw file for source")

// FindSourceFile picks the raw CSV to clean for source: a file whose name
// contains "global" if any, otherwise the most recently modified file whose
// name contains the source key.
func FindSourceFile(dir string, source models.Source) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+source.Key()+"*.csv"))
	if err != nil {
		return "", fmt.Errorf("storage: glob %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s (searched %s)", ErrSourceMissing, source, dir)
	}

	var global []string
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "global") {
			global = append(global, m)
		}
	}
	if len(global) > 0 {
		matches = global
	}
	return newest(matches)
}

func newest(paths []string) (string, error) {
	type candidate struct {
		path  string
		mtime int64
	}
	cands := make([]candidate, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("storage: stat %s: %w", p, err)
		}
		cands = append(cands, candidate{p, info.ModTime().UnixNano()})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].mtime != cands[j].mtime {
			return cands[i].mtime > cands[j].mtime
		}
		return cands[i].path > cands[j].path
	})
	return cands[0].path, nil
}

// LoadRawCSV reads a raw listing file. Every header column is present as a
// key on every listing, empty cells included.
func LoadRawCSV(path string) ([]models.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read header of %s: %w", path, err)
	}
	header = cleanHeader(header)

	var listings []models.RawListing
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("storage: parse %s: %w", path, err)
		}
		l := make(models.RawListing, len(header))
		for i, col := range header {
			l[col] = rec[i]
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
