package scraper

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"market-scraper/config"
	"market-scraper/extract"
	"market-scraper/models"
	"market-scraper/storage"
	"market-scraper/utils"
)

// fakeFetcher serves pages keyed by URL. A card "reject:..." is rejected by
// the test site; anything else becomes a listing titled with the card text.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string][]string
	next  map[string]bool
	fails map[string]int
	calls []string
}

func (f *fakeFetcher) Cards(_ context.Context, _ *Site, pageURL string) ([]string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pageURL)
	if f.fails[pageURL] > 0 {
		f.fails[pageURL]--
		return nil, false, errors.New("net::ERR_TIMED_OUT")
	}
	return f.pages[pageURL], f.next[pageURL], nil
}

var testSite = &Site{
	Source: models.SourceJumia,
	SearchURL: func(keyword string, page int) string {
		return "https://shop.test/?q=" + keyword + "&page=" + string(rune('0'+page))
	},
	CardSelector: "article",
	NextSelector: "a.next",
	Extract: func(fragment string, capturedAt time.Time) extract.Result {
		if strings.HasPrefix(fragment, "reject:") {
			return extract.Result{Outcome: extract.Rejected}
		}
		return extract.Result{Outcome: extract.Accepted, Listing: models.RawListing{
			models.RawTitle:      fragment,
			models.RawNativeID:   fragment,
			models.RawCapturedAt: capturedAt.Format("2006-01-02 15:04:05"),
		}}
	},
	Key: func(l models.RawListing) string { return l.Get(models.RawNativeID) },
}

func testScraper(t *testing.T, f Fetcher, pages int) *Scraper {
	t.Helper()
	cfg := &config.Config{
		RawDir:         t.TempDir(),
		PagesToScrape:  pages,
		MaxConcurrency: 2,
		MaxRetries:     2,
	}
	s := New(cfg, utils.NewLoggerTo(io.Discard, utils.LevelError), testSite, f)
	s.retry.BaseDelay = time.Millisecond
	s.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestScrapePaginatesAndDedupes(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string][]string{
			"https://shop.test/?q=tecno&page=1": {"Tecno Spark 20", "reject:Coque", "Tecno Camon 30"},
			"https://shop.test/?q=tecno&page=2": {"Tecno Camon 30", "Tecno Pova 6"},
		},
		next: map[string]bool{"https://shop.test/?q=tecno&page=1": true, "https://shop.test/?q=tecno&page=2": true},
	}
	s := testScraper(t, f, 2)

	listings, stats, err := s.Scrape(context.Background(), "tecno")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("listings: got %d, want 3", len(listings))
	}
	if stats.Pages != 2 || stats.Successful != 4 || stats.Rejected != 1 {
		t.Errorf("stats: %s", stats)
	}
	if len(f.calls) != 2 {
		t.Errorf("pages fetched: %v", f.calls)
	}
}

func TestScrapeStopsWithoutNextLink(t *testing.T) {
	f := &fakeFetcher{pages: map[string][]string{"https://shop.test/?q=x&page=1": {"Infinix Hot 40"}}}
	s := testScraper(t, f, 5)

	listings, _, err := s.Scrape(context.Background(), "x")
	if err != nil || len(listings) != 1 || len(f.calls) != 1 {
		t.Errorf("listings=%d calls=%d err=%v", len(listings), len(f.calls), err)
	}
}

func TestScrapeRetriesFailedPage(t *testing.T) {
	url := "https://shop.test/?q=x&page=1"
	f := &fakeFetcher{
		pages: map[string][]string{url: {"Honor X8b"}},
		fails: map[string]int{url: 1},
	}
	s := testScraper(t, f, 1)

	listings, stats, err := s.Scrape(context.Background(), "x")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(listings) != 1 || stats.Pages != 1 || len(f.calls) != 2 {
		t.Errorf("listings=%d pages=%d calls=%d", len(listings), stats.Pages, len(f.calls))
	}
}

func TestScrapeKeepsListingsWhenLaterPageFails(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string][]string{"https://shop.test/?q=x&page=1": {"Nokia G42"}},
		next:  map[string]bool{"https://shop.test/?q=x&page=1": true},
		fails: map[string]int{"https://shop.test/?q=x&page=2": 5},
	}
	s := testScraper(t, f, 2)

	listings, stats, err := s.Scrape(context.Background(), "x")
	if err != nil {
		t.Fatalf("a failing page should not fail the run: %v", err)
	}
	if len(listings) != 1 || stats.Pages != 1 {
		t.Errorf("listings=%d pages=%d", len(listings), stats.Pages)
	}
}

func TestCollectWritesRawFiles(t *testing.T) {
	f := &fakeFetcher{pages: map[string][]string{
		"https://shop.test/?q=tecno&page=1":   {"Tecno Spark 20"},
		"https://shop.test/?q=infinix&page=1": {"Infinix Hot 40", "Infinix Note 40"},
	}}
	s := testScraper(t, f, 1)

	res, err := s.Collect(context.Background(), []string{"tecno", "infinix"}, true)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if res.Listings != 3 || len(res.Files) != 3 {
		t.Fatalf("listings=%d files=%v", res.Listings, res.Files)
	}
	if filepath.Base(res.Files[0]) != "jumia_tecno_20240501_093000.csv" {
		t.Errorf("file name: %s", res.Files[0])
	}

	global, err := storage.FindSourceFile(s.cfg.RawDir, models.SourceJumia)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := storage.LoadRawCSV(global)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Get(models.RawTitle) != "Tecno Spark 20" {
		t.Errorf("global file rows: %v", rows)
	}
}
