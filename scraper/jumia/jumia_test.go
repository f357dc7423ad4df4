package jumia

import (
	"context"
	"io"
	"testing"

	"market-scraper/config"
	"market-scraper/models"
	"market-scraper/scraper"
	"market-scraper/utils"
)

const card = `<article class="prd _fb col c-prd">
  <a class="core" href="/tecno-spark-20-256go-54321.html" data-id="TE456MW1XYZ">
    <div class="info">
      <h3 class="name">Tecno Spark 20 - 8Go/256Go</h3>
      <div class="prc">1,299.00 Dhs</div>
    </div>
  </a>
</article>`

type staticFetcher []string

func (f staticFetcher) Cards(context.Context, *scraper.Site, string) ([]string, bool, error) {
	return f, false, nil
}

func TestSearchURL(t *testing.T) {
	if got := SearchURL("smartphone", 1); got != "https://www.jumia.ma/catalog/?q=smartphone" {
		t.Errorf("page 1: %q", got)
	}
	if got := SearchURL("redmi note", 2); got != "https://www.jumia.ma/catalog/?page=2&q=redmi+note" {
		t.Errorf("page 2: %q", got)
	}
}

func TestScrapeExtractsJumiaCards(t *testing.T) {
	cfg := &config.Config{PagesToScrape: 1, MaxRetries: 1}
	s := New(cfg, utils.NewLoggerTo(io.Discard, utils.LevelError), staticFetcher{card, card})

	listings, stats, err := s.Scrape(context.Background(), "tecno")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("duplicate card should be skipped, got %d listings", len(listings))
	}
	l := listings[0]
	if l.Get(models.RawNativeID) != "TE456MW1XYZ" || l.Get(models.RawPrice) != "1299.00" {
		t.Errorf("listing: %v", l)
	}
	if l.Get(models.RawLink) != "https://www.jumia.ma/tecno-spark-20-256go-54321.html" {
		t.Errorf("link: %q", l.Get(models.RawLink))
	}
	if stats.Successful != 2 || stats.Pages != 1 {
		t.Errorf("stats: %s", stats)
	}
}
