package extract

import (
	"strconv"
	"strings"
	"time"

	"market-scraper/models"
	"market-scraper/normalize"
)

const jumiaBase = "https://www.jumia.ma"

var (
	jumiaLink = []Strategy{
		Attr("a.core", "href"),
		Attr("a[href]", "href"),
	}
	jumiaID = []Strategy{
		SelfAttr("data-id"),
		Attr("a.core", "data-id"),
		Attr("a.core", "data-gtm-id"),
	}
	jumiaTitle = []Strategy{
		Text("h3.name"),
		Text(".name"),
		Attr("a.core", "data-gtm-name"),
		Attr("img.img", "alt"),
	}
	jumiaPrice = []Strategy{
		Text("div.prc"),
		Text(".prc"),
		Attr("a.core", "data-gtm-price"),
	}
	jumiaOriginalPrice = []Strategy{
		Text("div.old"),
		Attr("div.prc", "data-oprc"),
	}
	jumiaDiscount = []Strategy{
		Text("div.bdg._dsct"),
		Text("._dsct"),
	}
	jumiaRating = []Strategy{
		Text("div.stars._s"),
		Text(".rev .stars"),
	}
	jumiaImage = []Strategy{
		Attr("img.img", "data-src"),
		Attr("img", "data-src"),
		Attr("img", "src"),
	}
	jumiaSeller = []Strategy{
		Attr("svg.xprss", "aria-label"),
		Text(".bdg._glb"),
	}
)

// Jumia extracts one catalog card captured on the Jumia storefront. The
// price is kept in local currency; conversion happens at standardization.
func Jumia(fragment string, capturedAt time.Time) Result {
	card, err := parseCard(fragment, "article.prd")
	if err != nil {
		return Result{Outcome: Failed}
	}
	f := &fieldReader{card: card}

	title := f.FirstOf(titleValid, jumiaTitle...)
	priceText := f.FirstOf(func(s string) bool { return normalize.Price(s) != nil }, jumiaPrice...)
	rating := normalize.Rating(f.FirstOf(func(s string) bool { return normalize.Rating(s) != nil }, jumiaRating...))

	if title == "" || (priceText == "" && rating == nil) {
		return Result{Outcome: Rejected, FieldErrors: f.errors}
	}

	href := f.FirstOf(nil, jumiaLink...)
	id := f.FirstOf(nil, jumiaID...)
	if id == "" {
		id = strings.TrimSpace(href)
	}

	price := ""
	if p := normalize.Price(priceText); p != nil {
		price = strconv.FormatFloat(*p, 'f', 2, 64)
	}

	listing := models.RawListing{
		models.RawCapturedAt:    timestamp(capturedAt),
		models.RawSource:        string(models.SourceJumia),
		models.RawTitle:         title,
		models.RawPrice:         price,
		models.RawPriceText:     priceText,
		models.RawOriginalPrice: f.FirstOf(nil, jumiaOriginalPrice...),
		models.RawDiscount:      f.FirstOf(nil, jumiaDiscount...),
		models.RawRating:        formatRating(rating),
		models.RawSeller:        f.FirstOf(nil, jumiaSeller...),
		models.RawAvailability:  "in stock",
		models.RawLink:          absoluteURL(jumiaBase, href),
		models.RawNativeID:      id,
		models.RawImage:         f.FirstOf(nil, jumiaImage...),
	}
	return Result{Listing: listing, Outcome: Accepted, FieldErrors: f.errors}
}
