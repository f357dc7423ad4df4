// Package jumia collects smartphone listings from jumia.ma catalog search.
package jumia

import (
	"net/url"
	"strconv"

	"market-scraper/config"
	"market-scraper/extract"
	"market-scraper/models"
	"market-scraper/scraper"
	"market-scraper/utils"
)

const searchBase = "https://www.jumia.ma/catalog/"

// Site is the jumia.ma crawl definition.
var Site = &scraper.Site{
	Source:       models.SourceJumia,
	SearchURL:    SearchURL,
	CardSelector: "article.prd",
	NextSelector: "a[aria-label='Page suivante']",
	Dismiss: []string{
		"button[aria-label='newsletter_popup_close-cta']",
		"button.cls",
		"#cookie-consent-accept",
	},
	Extract: extract.Jumia,
	Key: func(l models.RawListing) string {
		if id := l.Get(models.RawNativeID); id != "" {
			return id
		}
		return l.Get(models.RawLink)
	},
}

// SearchURL builds the catalog URL for keyword and 1-based page.
func SearchURL(keyword string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return searchBase + "?" + q.Encode()
}

// New creates a jumia.ma scraper.
func New(cfg *config.Config, logger *utils.Logger, fetcher scraper.Fetcher) *scraper.Scraper {
	return scraper.New(cfg, logger, Site, fetcher)
}
