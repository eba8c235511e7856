package config

import (
	"fmt"
	"strings"

	"bargainer/internal/models"
)

// Kind selects which adapter variant serves a source.
type Kind string

const (
	KindAPI      Kind = "api"       // authenticated API, bearer credential
	KindKeyedAPI Kind = "keyed-api" // key-in-header API
	KindScrape   Kind = "scrape"    // HTML scraping
)

// SourceEntry pairs a provider configuration with its adapter variant.
type SourceEntry struct {
	models.Source
	Kind Kind
}

// Default hourly request budgets per source family.
const (
	apiRateLimit    = 100
	keyedRateLimit  = 1000
	scrapeRateLimit = 60
)

// LoadSources builds the provider catalog. API-backed sources register only
// when their credential is present; scraped sites are always available.
// Extra scrape sites can be appended via SCRAPE_SOURCES as
// "name=https://example.com" pairs, comma separated.
func LoadSources() ([]SourceEntry, error) {
	var entries []SourceEntry

	if key := getEnv("SLICKDEALS_API_KEY", ""); key != "" {
		entries = append(entries, SourceEntry{
			Kind: KindAPI,
			Source: models.Source{
				Name:      "slickdeals",
				BaseURL:   getEnv("SLICKDEALS_BASE_URL", "https://slickdeals.net"),
				APIKey:    key,
				RateLimit: getInt("SLICKDEALS_RATE_LIMIT", apiRateLimit),
				Enabled:   true,
			},
		})
	}

	if key := getEnv("RAPIDAPI_KEY", ""); key != "" {
		entries = append(entries, SourceEntry{
			Kind: KindKeyedAPI,
			Source: models.Source{
				Name:      "rapidapi",
				BaseURL:   getEnv("RAPIDAPI_DEALS_URL", "https://deals-scraper.p.rapidapi.com"),
				APIKey:    key,
				RateLimit: getInt("RAPIDAPI_RATE_LIMIT", keyedRateLimit),
				Enabled:   true,
			},
		})
	}

	entries = append(entries,
		SourceEntry{
			Kind: KindScrape,
			Source: models.Source{
				Name:      "dealnews",
				BaseURL:   getEnv("DEALNEWS_BASE_URL", "https://www.dealnews.com"),
				RateLimit: scrapeRateLimit,
				Enabled:   true,
			},
		},
		SourceEntry{
			Kind: KindScrape,
			Source: models.Source{
				Name:      "retailmenot",
				BaseURL:   getEnv("RETAILMENOT_BASE_URL", "https://www.retailmenot.com"),
				RateLimit: scrapeRateLimit,
				Enabled:   true,
			},
		},
	)

	for _, pair := range splitAndTrim(getEnv("SCRAPE_SOURCES", "")) {
		name, baseURL, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("SCRAPE_SOURCES entry %q must look like name=url", pair)
		}
		entries = append(entries, SourceEntry{
			Kind: KindScrape,
			Source: models.Source{
				Name:      strings.TrimSpace(name),
				BaseURL:   strings.TrimSpace(baseURL),
				RateLimit: scrapeRateLimit,
				Enabled:   true,
			},
		})
	}

	for _, entry := range entries {
		if err := models.ValidateSource(entry.Source); err != nil {
			return nil, fmt.Errorf("source %s: %w", entry.Name, err)
		}
	}

	return entries, nil
}
