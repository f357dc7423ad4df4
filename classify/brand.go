package classify

import (
	"unicode"
	"unicode/utf8"

	"market-scraper/models"
)

// canonicalBrands is searched in order after the alias rules.
var canonicalBrands = []string{
	"samsung", "apple", "huawei", "xiaomi", "oppo", "vivo", "realme", "oneplus",
	"google", "motorola", "nokia", "sony", "lg", "asus", "lenovo", "tecno",
	"infinix", "wiko", "honor", "zte", "alcatel",
}

// aliasRules run before the brand list so product-line names resolve to
// their maker and sub-brand accessories do not.
var aliasRules = []Rule{
	{Name: "apple-alias", Keywords: []string{"iphone", "ipad"}, Result: "Apple"},
	{Name: "samsung-alias", Keywords: []string{"galaxy"}, Exclude: []string{"watch"}, Result: "Samsung"},
	{Name: "xiaomi-alias", Keywords: []string{"redmi", "pocophone", "poco"}, Result: "Xiaomi"},
	{Name: "google-alias", Keywords: []string{"pixel"}, Exclude: []string{"buds"}, Result: "Google"},
}

// BrandClassifier resolves titles to a canonical brand name.
type BrandClassifier struct {
	rules []Rule
}

// NewBrandClassifier builds the alias rules followed by one rule per
// canonical brand.
func NewBrandClassifier() *BrandClassifier {
	rules := make([]Rule, 0, len(aliasRules)+len(canonicalBrands))
	rules = append(rules, aliasRules...)
	for _, b := range canonicalBrands {
		rules = append(rules, Rule{Name: b, Keywords: []string{b}, Result: capitalize(b)})
	}
	return &BrandClassifier{rules: rules}
}

// Rules returns a copy of the ordered rule table.
func (c *BrandClassifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify returns the brand for title, or models.UnknownBrand.
func (c *BrandClassifier) Classify(title string) string {
	folded := Fold(title)
	if folded == "" {
		return models.UnknownBrand
	}
	for _, r := range c.rules {
		if r.Matches(folded) {
			return r.Result
		}
	}
	return models.UnknownBrand
}

// KnownBrands lists every value Classify can return.
func KnownBrands() []string {
	out := make([]string, 0, len(canonicalBrands)+1)
	for _, b := range canonicalBrands {
		out = append(out, capitalize(b))
	}
	return append(out, models.UnknownBrand)
}

var defaultBrands = NewBrandClassifier()

// Brand classifies title with the default rule table.
func Brand(title string) string {
	return defaultBrands.Classify(title)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
