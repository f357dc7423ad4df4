// Package classify maps listing titles to a canonical brand and a product
// category. Both classifiers are ordered rule tables evaluated top to bottom
// over a lower-cased, accent-folded title; the first matching rule wins.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Rule yields Result when the text contains any Keyword and none of Exclude.
type Rule struct {
	Name     string
	Keywords []string
	Exclude  []string
	Result   string
}

// Matches reports whether the rule fires on already folded text.
func (r Rule) Matches(folded string) bool {
	if !containsAny(folded, r.Keywords) {
		return false
	}
	return !containsAny(folded, r.Exclude)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Fold lower-cases s, strips diacritics and collapses whitespace, so
// "Étui  Galaxy" and "etui galaxy" compare equal. Invalid UTF-8 is tolerated.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if f := Fold(kw); f != "" {
			out = append(out, f)
		}
	}
	return out
}
