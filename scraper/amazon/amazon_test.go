package amazon

import (
	"testing"

	"market-scraper/models"
)

func TestSearchURL(t *testing.T) {
	tests := []struct {
		keyword string
		page    int
		want    string
	}{
		{"smartphone", 1, "https://www.amazon.fr/s?k=smartphone"},
		{"samsung galaxy", 3, "https://www.amazon.fr/s?k=samsung+galaxy&page=3"},
	}
	for _, tt := range tests {
		if got := SearchURL(tt.keyword, tt.page); got != tt.want {
			t.Errorf("SearchURL(%q, %d) = %q, want %q", tt.keyword, tt.page, got, tt.want)
		}
	}
}

func TestListingKey(t *testing.T) {
	withASIN := models.RawListing{models.RawASIN: "B0CHX1W1XY", models.RawLink: "https://www.amazon.fr/dp/B0CHX1W1XY"}
	if got := Site.Key(withASIN); got != "B0CHX1W1XY" {
		t.Errorf("got %q", got)
	}
	linkOnly := models.RawListing{models.RawLink: "https://www.amazon.fr/sspa/click?x=1"}
	if got := Site.Key(linkOnly); got != "https://www.amazon.fr/sspa/click?x=1" {
		t.Errorf("got %q", got)
	}
}
