// Package normalize cleans and classifies scraped scholarship fields
// so every source feeds the database in the same shape.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	currencyRe   = regexp.MustCompile(`[$£€¥₹₽₩₪₦₨₫₱₲₴₵₸₺₻₼₾₿]`)
	quotesRe     = regexp.MustCompile(`['"]`)
	fillerRe     = regexp.MustCompile(`(?i)\b(amount|varies|not specified|tbd|to be determined)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	numPrefixRe  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)
)

// CleanOptions selects which character classes CleanText strips.
// Leading and trailing whitespace is always trimmed.
type CleanOptions struct {
	Quotes   bool
	Commas   bool
	Currency bool
}

func CleanText(text string, opts CleanOptions) string {
	if text == "" {
		return ""
	}

	result := norm.NFC.String(text)

	if opts.Quotes {
		result = quotesRe.ReplaceAllString(result, "")
	}
	if opts.Commas {
		result = strings.ReplaceAll(result, ",", "")
	}
	if opts.Currency {
		result = currencyRe.ReplaceAllString(result, "")
	}

	return strings.TrimSpace(result)
}

// CleanAmount strips currency symbols, separators and filler words
// ("varies", "TBD", ...) so the remainder can be parsed as a number.
func CleanAmount(text string) string {
	if text == "" {
		return ""
	}

	result := currencyRe.ReplaceAllString(text, "")
	result = strings.ReplaceAll(result, ",", "")
	result = quotesRe.ReplaceAllString(result, "")
	result = fillerRe.ReplaceAllString(result, "")
	result = whitespaceRe.ReplaceAllString(result, " ")

	return strings.TrimSpace(result)
}

// ParseAmount parses the leading numeric prefix of a cleaned amount
// string. Text without a numeric prefix parses as 0.
func ParseAmount(text string) float64 {
	match := numPrefixRe.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	return value
}

// TruncateText shortens text to at most maxLength characters, ending
// truncated text with an ellipsis when it fits.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	return strings.TrimSpace(string(runes[:maxLength-3])) + "..."
}

// EnsureNonEmpty returns fallback when value is empty or whitespace.
func EnsureNonEmpty(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
