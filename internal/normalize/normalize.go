package normalize

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonPrice      = regexp.MustCompile(`[^0-9.\-]+`)
	leadingNumber = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?`)
	punctuation   = regexp.MustCompile(`[^\w\s]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// titleKeyLen caps the grouping key used for near-duplicate detection.
// Longer titles only contribute their first 50 characters, which can both
// over-merge and under-merge; callers treat the key as a heuristic.
const titleKeyLen = 50

// Price parses a price that may arrive as a number or as display text such
// as "$1,299.99". Text is stripped down to digits, '.' and '-' before
// parsing. A value that cannot be parsed yields nil, never zero.
func Price(raw any) *float64 {
	switch v := raw.(type) {
	case float64:
		return ptr(v)
	case int:
		return ptr(float64(v))
	case string:
		cleaned := nonPrice.ReplaceAllString(v, "")
		if cleaned == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}
		return ptr(parsed)
	default:
		return nil
	}
}

// Rating parses a rating that may arrive as a number or as text like
// "4.5 out of 5", "4.5/5" or "4.5stars"; the leading number wins. Parse
// failure yields nil.
func Rating(raw any) *float64 {
	switch v := raw.(type) {
	case float64:
		return ptr(v)
	case int:
		return ptr(float64(v))
	case string:
		lead := leadingNumber.FindString(strings.TrimSpace(v))
		if lead == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(lead, 64)
		if err != nil || math.IsNaN(parsed) {
			return nil
		}
		return ptr(parsed)
	default:
		return nil
	}
}

// DiscountPercent derives the percentage saved from the original price.
func DiscountPercent(original, current float64) float64 {
	return math.Round(((original - current) / original) * 100)
}

// TitleKey builds the normalized grouping key for near-duplicate titles:
// lowercase, punctuation stripped, whitespace collapsed, truncated to the
// first 50 characters.
func TitleKey(title string) string {
	key := strings.ToLower(title)
	key = punctuation.ReplaceAllString(key, "")
	key = whitespace.ReplaceAllString(key, " ")
	key = strings.TrimSpace(key)

	runes := []rune(key)
	if len(runes) > titleKeyLen {
		runes = runes[:titleKeyLen]
	}
	return string(runes)
}

// AbsoluteURL resolves href against base when href is relative. An empty or
// unparseable href yields "".
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return href
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

// Timestamp parses the formats deal sources are known to emit. Returns the
// zero time when nothing matches.
func Timestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}

func ptr(v float64) *float64 {
	return &v
}
