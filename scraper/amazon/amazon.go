// Package amazon collects smartphone listings from amazon.fr search results.
package amazon

import (
	"net/url"
	"strconv"

	"market-scraper/config"
	"market-scraper/extract"
	"market-scraper/models"
	"market-scraper/scraper"
	"market-scraper/utils"
)

const searchBase = "https://www.amazon.fr/s"

// Site is the amazon.fr crawl definition.
var Site = &scraper.Site{
	Source:       models.SourceAmazon,
	SearchURL:    SearchURL,
	CardSelector: "div[data-component-type='s-search-result']",
	NextSelector: "a.s-pagination-next:not(.s-pagination-disabled)",
	Dismiss:      []string{"#sp-cc-accept", "input[data-action-type='DISMISS']"},
	Extract:      extract.Amazon,
	Key: func(l models.RawListing) string {
		if asin := l.Get(models.RawASIN); asin != "" {
			return asin
		}
		return l.Get(models.RawLink)
	},
}

// SearchURL builds the results URL for keyword and 1-based page.
func SearchURL(keyword string, page int) string {
	q := url.Values{}
	q.Set("k", keyword)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return searchBase + "?" + q.Encode()
}

// New creates an amazon.fr scraper.
func New(cfg *config.Config, logger *utils.Logger, fetcher scraper.Fetcher) *scraper.Scraper {
	return scraper.New(cfg, logger, Site, fetcher)
}
