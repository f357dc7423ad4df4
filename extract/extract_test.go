package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"market-scraper/models"
)

var captured = time.Date(2026, 1, 29, 10, 30, 0, 0, time.UTC)

const amazonCard = `
<div data-component-type="s-search-result" data-asin="B08N5WRWNW">
  <h2><a class="a-link-normal" href="/Samsung-Galaxy-S21/dp/B08N5WRWNW/ref=sr_1_1"><span>Samsung Galaxy S21 128GB</span></a></h2>
  <span class="a-price"><span class="a-offscreen">4 999,00 €</span></span>
  <span class="a-price a-text-price"><span class="a-offscreen">5 499,00 €</span></span>
  <span class="a-badge-text">-9%</span>
  <i class="a-icon a-icon-star-small"><span class="a-icon-alt">4,5 sur 5 étoiles</span></i>
  <a href="/product-reviews/B08N5WRWNW#customerReviews"><span class="s-underline-text">1 234</span></a>
  <i class="a-icon a-icon-prime"></i>
  <img class="s-image" src="https://m.media-amazon.com/images/I/s21.jpg" alt="Galaxy S21">
</div>`

func TestAmazonFullCard(t *testing.T) {
	res := Amazon(amazonCard, captured)
	if res.Outcome != Accepted {
		t.Fatalf("outcome: got %v, want Accepted", res.Outcome)
	}
	l := res.Listing

	checks := map[string]string{
		models.RawTitle:         "Samsung Galaxy S21 128GB",
		models.RawPrice:         "4 999,00 €",
		models.RawOriginalPrice: "5 499,00 €",
		models.RawDiscount:      "-9%",
		models.RawRating:        "4.5",
		models.RawReviewCount:   "1234",
		models.RawPrime:         "true",
		models.RawAvailability:  "in stock",
		models.RawASIN:          "B08N5WRWNW",
		models.RawLink:          "https://www.amazon.fr/Samsung-Galaxy-S21/dp/B08N5WRWNW/ref=sr_1_1",
		models.RawImage:         "https://m.media-amazon.com/images/I/s21.jpg",
		models.RawCapturedAt:    "2026-01-29 10:30:00",
		models.RawSource:        "Amazon",
	}
	for key, want := range checks {
		if got := l.Get(key); got != want {
			t.Errorf("%s: got %q, want %q", key, got, want)
		}
	}
}

func TestAmazonTitleFallback(t *testing.T) {
	card := `<div data-component-type="s-search-result">
	  <h2 aria-label="Apple iPhone 13 (128 Go) - Minuit"><a href="/x/dp/B09G9HD6PD"></a></h2>
	  <span class="a-price"><span class="a-price-whole">729,</span></span>
	</div>`
	res := Amazon(card, captured)
	if res.Outcome != Accepted {
		t.Fatalf("outcome: got %v", res.Outcome)
	}
	if got := res.Listing.Get(models.RawTitle); got != "Apple iPhone 13 (128 Go) - Minuit" {
		t.Errorf("title fallback: got %q", got)
	}
	if got := res.Listing.Get(models.RawASIN); got != "B09G9HD6PD" {
		t.Errorf("asin from url: got %q", got)
	}
	if got := res.Listing.Get(models.RawReviewCount); got != "0" {
		t.Errorf("review default: got %q", got)
	}
	if got := res.Listing.Get(models.RawPrime); got != "false" {
		t.Errorf("prime default: got %q", got)
	}
}

func TestAmazonShortTitleSkipsToNextStrategy(t *testing.T) {
	card := `<div data-component-type="s-search-result">
	  <h2><a href="/dp/B000000001"><span>Promo</span></a></h2>
	  <img class="s-image" src="x.jpg" alt="Xiaomi Redmi Note 12 Pro">
	  <span class="a-price"><span class="a-offscreen">299,99 €</span></span>
	</div>`
	res := Amazon(card, captured)
	if got := res.Listing.Get(models.RawTitle); got != "Xiaomi Redmi Note 12 Pro" {
		t.Errorf("title: got %q", got)
	}
}

func TestAmazonRejectsCardsWithoutPriceOrRating(t *testing.T) {
	cards := []string{
		`<div data-component-type="s-search-result"><h2><a href="/dp/B000000001"><span>Sponsored brand banner</span></a></h2></div>`,
		`<div data-component-type="s-search-result"><span class="a-price"><span class="a-offscreen">19,99 €</span></span></div>`,
		``,
		`<<<not html`,
	}
	for i, c := range cards {
		res := Amazon(c, captured)
		if res.Outcome != Rejected {
			t.Errorf("card %d: outcome %v, want Rejected", i, res.Outcome)
		}
		if res.Listing != nil {
			t.Errorf("card %d: rejected card produced a listing", i)
		}
	}
}

func TestAmazonAcceptsRatingWithoutPrice(t *testing.T) {
	card := `<div data-component-type="s-search-result">
	  <h2><a href="/dp/B0C000000X"><span>Google Pixel 8 Pro</span></a></h2>
	  <i class="a-icon-star-small"><span class="a-icon-alt">4,1 sur 5 étoiles</span></i>
	</div>`
	res := Amazon(card, captured)
	if res.Outcome != Accepted {
		t.Fatalf("outcome: got %v", res.Outcome)
	}
	if res.Listing.Get(models.RawPrice) != "" {
		t.Errorf("price should be empty, got %q", res.Listing.Get(models.RawPrice))
	}
}

const jumiaCard = `
<article class="prd _fb col c-prd">
  <a class="core" href="/xiaomi-redmi-note-12-128go-12345.html" data-id="XI123MW0ABC">
    <div class="img-c"><img class="img" data-src="https://ma.jumia.is/redmi.jpg" alt="Redmi"></div>
    <div class="info">
      <h3 class="name">Xiaomi Redmi Note 12 - 4Go/128Go</h3>
      <div class="prc">2,500.00 Dhs</div>
      <div class="old">2,999.00 Dhs</div>
      <div class="bdg _dsct">17%</div>
      <div class="rev"><div class="stars _s">4.4 out of 5</div>(87)</div>
    </div>
  </a>
</article>`

func TestJumiaFullCard(t *testing.T) {
	res := Jumia(jumiaCard, captured)
	if res.Outcome != Accepted {
		t.Fatalf("outcome: got %v", res.Outcome)
	}
	l := res.Listing

	checks := map[string]string{
		models.RawTitle:         "Xiaomi Redmi Note 12 - 4Go/128Go",
		models.RawPrice:         "2500.00",
		models.RawPriceText:     "2,500.00 Dhs",
		models.RawOriginalPrice: "2,999.00 Dhs",
		models.RawDiscount:      "17%",
		models.RawRating:        "4.4",
		models.RawNativeID:      "XI123MW0ABC",
		models.RawLink:          "https://www.jumia.ma/xiaomi-redmi-note-12-128go-12345.html",
		models.RawImage:         "https://ma.jumia.is/redmi.jpg",
		models.RawSource:        "Jumia",
	}
	for key, want := range checks {
		if got := l.Get(key); got != want {
			t.Errorf("%s: got %q, want %q", key, got, want)
		}
	}
	if l.Has(models.RawReviewCount) {
		t.Error("jumia cards should not report a review count")
	}
}

func TestJumiaIDFallsBackToLink(t *testing.T) {
	card := `<article class="prd"><a class="core" href="/tecno-spark-20-987.html">
	  <h3 class="name">Tecno Spark 20 Pro</h3><div class="prc">1 699 Dhs</div></a></article>`
	res := Jumia(card, captured)
	if res.Outcome != Accepted {
		t.Fatalf("outcome: got %v", res.Outcome)
	}
	if got := res.Listing.Get(models.RawNativeID); got != "/tecno-spark-20-987.html" {
		t.Errorf("id fallback: got %q", got)
	}
	if got := res.Listing.Get(models.RawPrice); got != "1699.00" {
		t.Errorf("price: got %q", got)
	}
}

func TestJumiaRejectsPlaceholderTitle(t *testing.T) {
	card := `<article class="prd"><a class="core" href="/x.html"><h3 class="name">Promo</h3><div class="prc">99 Dhs</div></a></article>`
	if res := Jumia(card, captured); res.Outcome != Rejected {
		t.Errorf("outcome: got %v, want Rejected", res.Outcome)
	}
}

func TestFirstOfRecoversFromPanickingStrategy(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div><p class="t">Hello world</p></div>`))
	if err != nil {
		t.Fatal(err)
	}
	boom := func(*goquery.Selection) string { panic("bad markup") }

	f := &fieldReader{card: doc.Selection}
	got := f.FirstOf(nil, boom, Text("p.t"))
	if got != "Hello world" {
		t.Errorf("got %q, want %q", got, "Hello world")
	}
	if f.errors != 1 {
		t.Errorf("field errors: got %d, want 1", f.errors)
	}
}

func TestResultRecord(t *testing.T) {
	var stats models.ExtractionStats
	Result{Outcome: Accepted, FieldErrors: 2}.Record(&stats)
	Result{Outcome: Rejected}.Record(&stats)
	Result{Outcome: Failed}.Record(&stats)
	if stats.Successful != 1 || stats.Rejected != 1 || stats.Failed != 1 || stats.FieldErrors != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
