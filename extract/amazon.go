package extract

import (
	"regexp"
	"strconv"
	"time"

	"market-scraper/models"
	"market-scraper/normalize"
)

const amazonBase = "https://www.amazon.fr"

var asinRegexp = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)

var (
	amazonTitle = []Strategy{
		Text("h2 a span"),
		Text("h2 span"),
		Text("[data-cy='title-recipe'] span"),
		Attr("h2", "aria-label"),
		Attr("img.s-image", "alt"),
	}
	amazonLink = []Strategy{
		Attr("h2 a", "href"),
		Attr("a.a-link-normal.s-no-outline", "href"),
		Attr("a[href*='/dp/']", "href"),
	}
	amazonPrice = []Strategy{
		Text(".a-price:not(.a-text-price) .a-offscreen"),
		Text(".a-price .a-offscreen"),
		Text(".a-price-whole"),
		Text(".a-color-base .a-text-bold"),
	}
	amazonOriginalPrice = []Strategy{
		Text(".a-price.a-text-price .a-offscreen"),
		Text("[data-a-strike='true'] .a-offscreen"),
	}
	amazonDiscount = []Strategy{
		Text(".a-badge-text"),
		Text(".s-coupon-highlight-color"),
	}
	amazonRating = []Strategy{
		Text("i.a-icon-star-small span.a-icon-alt"),
		Text("i[class*='a-star'] span.a-icon-alt"),
		Attr("span[aria-label*='étoiles']", "aria-label"),
		Attr("span[aria-label*='out of 5']", "aria-label"),
	}
	amazonReviews = []Strategy{
		Text("a[href*='customerReviews'] span.s-underline-text"),
		Attr("a[href*='customerReviews']", "aria-label"),
		Text("span.s-underline-text"),
	}
	amazonSeller = []Strategy{
		Text(".a-row.a-size-base.a-color-secondary .a-size-base"),
		Text(".a-size-base.a-color-secondary"),
	}
	amazonAvailability = []Strategy{
		Text(".a-size-base.a-color-price"),
		Attr("span[aria-label*='stock']", "aria-label"),
	}
	amazonPrime = []Strategy{
		Exists("i.a-icon-prime"),
		Exists("[aria-label='Amazon Prime']"),
	}
	amazonImage = []Strategy{
		Attr("img.s-image", "src"),
		Attr("img", "data-src"),
		Attr("img", "src"),
	}
)

// Amazon extracts one search-result card captured on the Amazon storefront.
// Listings without a usable title, or with neither price nor rating, are
// rejected.
func Amazon(fragment string, capturedAt time.Time) Result {
	card, err := parseCard(fragment, "div[data-component-type='s-search-result']")
	if err != nil {
		return Result{Outcome: Failed}
	}
	f := &fieldReader{card: card}

	title := f.FirstOf(titleValid, amazonTitle...)
	priceText := f.FirstOf(func(s string) bool { return normalize.Price(s) != nil }, amazonPrice...)
	rating := normalize.Rating(f.FirstOf(func(s string) bool { return normalize.Rating(s) != nil }, amazonRating...))

	if title == "" || (priceText == "" && rating == nil) {
		return Result{Outcome: Rejected, FieldErrors: f.errors}
	}

	link := absoluteURL(amazonBase, f.FirstOf(nil, amazonLink...))
	asin := f.FirstOf(asinValid, SelfAttr("data-asin"))
	if asin == "" {
		asin = asinFromURL(link)
	}
	if asin == "" {
		asin = link
	}

	reviews := "0"
	if n := normalize.ReviewCount(f.FirstOf(func(s string) bool { return normalize.ReviewCount(s) != nil }, amazonReviews...)); n != nil {
		reviews = strconv.Itoa(*n)
	}

	availability := f.FirstOf(nil, amazonAvailability...)
	if availability == "" {
		availability = "in stock"
	}

	prime := "false"
	if f.FirstOf(nil, amazonPrime...) == "true" {
		prime = "true"
	}

	listing := models.RawListing{
		models.RawTitle:         title,
		models.RawPrice:         priceText,
		models.RawOriginalPrice: f.FirstOf(nil, amazonOriginalPrice...),
		models.RawDiscount:      f.FirstOf(nil, amazonDiscount...),
		models.RawRating:        formatRating(rating),
		models.RawReviewCount:   reviews,
		models.RawSeller:        f.FirstOf(nil, amazonSeller...),
		models.RawPrime:         prime,
		models.RawAvailability:  availability,
		models.RawLink:          link,
		models.RawASIN:          asin,
		models.RawImage:         f.FirstOf(nil, amazonImage...),
		models.RawCapturedAt:    timestamp(capturedAt),
		models.RawSource:        string(models.SourceAmazon),
	}
	return Result{Listing: listing, Outcome: Accepted, FieldErrors: f.errors}
}

func asinValid(s string) bool {
	return len(s) == 10
}

func asinFromURL(u string) string {
	m := asinRegexp.FindStringSubmatch(u)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}
