// Package extract turns one search-result card fragment into a RawListing.
// Each field is read by an ordered list of selector strategies; the first
// strategy yielding a non-empty, valid value wins.
package extract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"market-scraper/models"
)

// Strategy reads one candidate value from a card. It may return "".
type Strategy func(card *goquery.Selection) string

// Validator accepts or rejects a candidate value.
type Validator func(string) bool

// Outcome classifies the result of one extraction.
type Outcome int

const (
	Accepted Outcome = iota
	Rejected
	Failed
)

// Result is what an extractor returns for a single card.
type Result struct {
	Listing     models.RawListing
	Outcome     Outcome
	FieldErrors int
}

// Record folds the result into run statistics.
func (r Result) Record(stats *models.ExtractionStats) {
	switch r.Outcome {
	case Accepted:
		stats.Successful++
	case Rejected:
		stats.Rejected++
	case Failed:
		stats.Failed++
	}
	stats.FieldErrors += r.FieldErrors
}

// fieldReader applies strategy chains to one card and tallies strategy panics.
type fieldReader struct {
	card   *goquery.Selection
	errors int
}

// FirstOf returns the first value produced by strategies that valid accepts.
// A nil validator accepts any non-empty value. Panicking strategies count as
// one field error each and are skipped.
func (f *fieldReader) FirstOf(valid Validator, strategies ...Strategy) string {
	for _, s := range strategies {
		v, ok := f.try(s)
		if !ok {
			f.errors++
			continue
		}
		v = cleanText(v)
		if v == "" {
			continue
		}
		if valid == nil || valid(v) {
			return v
		}
	}
	return ""
}

func (f *fieldReader) try(s Strategy) (v string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = "", false
		}
	}()
	return s(f.card), true
}

// FirstOf is the stateless form of fieldReader.FirstOf.
func FirstOf(card *goquery.Selection, valid Validator, strategies ...Strategy) string {
	f := &fieldReader{card: card}
	return f.FirstOf(valid, strategies...)
}

// Text reads the trimmed text of the first element matching selector.
func Text(selector string) Strategy {
	return func(card *goquery.Selection) string {
		return card.Find(selector).First().Text()
	}
}

// Attr reads an attribute of the first element matching selector.
func Attr(selector, attr string) Strategy {
	return func(card *goquery.Selection) string {
		v, _ := card.Find(selector).First().Attr(attr)
		return v
	}
}

// SelfAttr reads an attribute of the card root itself.
func SelfAttr(attr string) Strategy {
	return func(card *goquery.Selection) string {
		v, _ := card.Attr(attr)
		return v
	}
}

// Exists yields "true" when selector matches anything.
func Exists(selector string) Strategy {
	return func(card *goquery.Selection) string {
		if card.Find(selector).Length() > 0 {
			return "true"
		}
		return ""
	}
}

// parseCard parses an HTML fragment and returns its first element matching
// root, or the whole body when root matches nothing.
func parseCard(fragment, root string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("extract: parse fragment: %w", err)
	}
	if sel := doc.Find(root).First(); sel.Length() > 0 {
		return sel, nil
	}
	return doc.Find("body"), nil
}

// absoluteURL resolves href against base; "" stays "".
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func titleValid(s string) bool {
	return len([]rune(s)) > 5
}

func timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
