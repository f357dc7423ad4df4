// Package normalize converts locale-formatted price, rating and review-count
// text into numbers. Every function is total: malformed input yields nil.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// priceTokenRegexp captures the first number. Groups are joined by a
	// single separator, so "1 200 - 1 500 Dhs" yields "1 200" and a line
	// break or a double space ends the token.
	priceTokenRegexp = regexp.MustCompile(`\d+(?:[.,' \x{00A0}\x{202F}]\d+)*`)
	// ratingRegexp captures a decimal with either separator.
	ratingRegexp = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	// ratingSeparators split "4,5 sur 5 étoiles" and "4.5 out of 5".
	ratingSeparators = []string{"out of", "sur", "von", "/"}
	// floatCountRegexp matches counts exported as floats ("1234.0").
	floatCountRegexp = regexp.MustCompile(`^(\d+)[.,]0$`)
)

// Price parses a price such as "4 999,00 €", "2500.00 Dhs" or "$1,200.50".
func Price(text string) *float64 {
	token := priceTokenRegexp.FindString(text)
	if token == "" {
		return nil
	}

	digits := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			return r
		}
		return -1
	}, token)

	v, err := strconv.ParseFloat(canonicalDecimal(digits), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// canonicalDecimal rewrites a digit string with ',' and '.' separators into
// ParseFloat syntax. When both appear the rightmost is the decimal mark.
// A lone separator, comma or dot, is decimal unless exactly three digits
// follow it.
func canonicalDecimal(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case lastComma >= 0:
		if strings.Count(s, ",") > 1 || len(s)-lastComma-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)

	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			return strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// Rating parses "4,5 sur 5 étoiles", "4.5 out of 5" or a bare "4.5".
// Values outside [1, 5] are treated as absent.
func Rating(text string) *float64 {
	lead := strings.ToLower(strings.TrimSpace(text))
	if lead == "" {
		return nil
	}
	for _, sep := range ratingSeparators {
		if idx := strings.Index(lead, sep); idx >= 0 {
			lead = lead[:idx]
			break
		}
	}

	match := ratingRegexp.FindString(lead)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil || v < 1 || v > 5 {
		return nil
	}
	return &v
}

// ReviewCount parses "1 234", "(45)", "2.318 évaluations" or "1234.0".
func ReviewCount(text string) *int {
	if m := floatCountRegexp.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		text = m[1]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// Convert divides a local-currency price by rate (local units per reference
// unit). A nil price or a non-positive rate yields nil.
func Convert(price *float64, rate float64) *float64 {
	if price == nil || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	v := *price / rate
	return &v
}
