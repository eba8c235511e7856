package normalize

import "strings"

// Every source speaks its own vocabulary of field names for the same
// concept ("price" vs "deal_price" vs "currentPrice"). The pickers below
// walk an ordered candidate list over a raw JSON object and take the first
// field that is actually present, so each provider variant stays a pure
// vocabulary table instead of bespoke extraction code.

// FirstString returns the first candidate field holding a non-empty string.
func FirstString(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := item[key].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// FirstNumber returns the first candidate field that is present and
// non-empty, parsed as a price-style number. A present value that fails to
// parse yields nil without falling through to later candidates.
func FirstNumber(item map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return Price(v)
	}
	return nil
}

// FirstRating mirrors FirstNumber with rating-style parsing.
func FirstRating(item map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return Rating(v)
	}
	return nil
}

// FirstInt returns the first candidate field parseable as a whole number.
func FirstInt(item map[string]any, keys ...string) *int {
	if n := FirstNumber(item, keys...); n != nil {
		i := int(*n)
		return &i
	}
	return nil
}

// FirstBool reports whether any candidate field is set to true.
func FirstBool(item map[string]any, keys ...string) bool {
	for _, key := range keys {
		if v, ok := item[key].(bool); ok && v {
			return true
		}
	}
	return false
}

// StringList returns the first candidate field holding a list of strings.
// A comma-separated string value is split, matching sources that serialize
// keyword lists that way.
func StringList(item map[string]any, keys ...string) []string {
	for _, key := range keys {
		switch v := item[key].(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, el := range v {
				if s, ok := el.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			parts := strings.Split(v, ",")
			out := make([]string, 0, len(parts))
			for _, part := range parts {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
