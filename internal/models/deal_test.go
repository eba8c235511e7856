package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bargainer/internal/models"
)

func validDeal() models.Deal {
	rating := 4.5
	return models.Deal{
		ID:        "d1",
		Title:     "Gaming Laptop",
		Store:     "Example Store",
		URL:       "https://deals.example.com/d/1",
		Source:    "example",
		CreatedAt: "2024-01-02T15:04:05Z",
		Rating:    &rating,
	}
}

func TestValidateDeal(t *testing.T) {
	require.NoError(t, models.ValidateDeal(validDeal()))

	tests := []struct {
		name   string
		mutate func(*models.Deal)
	}{
		{name: "missing title", mutate: func(d *models.Deal) { d.Title = "" }},
		{name: "missing url", mutate: func(d *models.Deal) { d.URL = "" }},
		{name: "relative url", mutate: func(d *models.Deal) { d.URL = "/deal/1" }},
		{name: "non-http url", mutate: func(d *models.Deal) { d.URL = "ftp://example.com/d" }},
		{name: "malformed image url", mutate: func(d *models.Deal) { d.ImageURL = "not a url" }},
		{name: "missing store", mutate: func(d *models.Deal) { d.Store = "" }},
		{name: "missing source", mutate: func(d *models.Deal) { d.Source = "" }},
		{name: "rating above scale", mutate: func(d *models.Deal) { r := 5.1; d.Rating = &r }},
		{name: "negative review count", mutate: func(d *models.Deal) { n := -1; d.ReviewCount = &n }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := validDeal()
			tt.mutate(&deal)
			require.Error(t, models.ValidateDeal(deal))
		})
	}
}

func TestValidateDealOptionalFieldsMayBeAbsent(t *testing.T) {
	deal := validDeal()
	deal.Rating = nil
	deal.Price = nil
	deal.ImageURL = ""
	deal.Category = ""
	deal.Tags = nil
	require.NoError(t, models.ValidateDeal(deal))
}

func TestValidateSearchParams(t *testing.T) {
	params := models.SearchParams{Query: "laptop", Limit: 20}
	require.NoError(t, models.ValidateSearchParams(params))

	params.SortBy = "price"
	params.SortOrder = "asc"
	require.NoError(t, models.ValidateSearchParams(params))

	tests := []struct {
		name   string
		mutate func(*models.SearchParams)
	}{
		{name: "missing query", mutate: func(p *models.SearchParams) { p.Query = "" }},
		{name: "limit too low", mutate: func(p *models.SearchParams) { p.Limit = 0 }},
		{name: "limit too high", mutate: func(p *models.SearchParams) { p.Limit = 101 }},
		{name: "bad sort field", mutate: func(p *models.SearchParams) { p.SortBy = "relevance" }},
		{name: "bad sort order", mutate: func(p *models.SearchParams) { p.SortOrder = "descending" }},
		{name: "rating out of range", mutate: func(p *models.SearchParams) { r := 6.0; p.MinRating = &r }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.SearchParams{Query: "laptop", Limit: 20}
			tt.mutate(&p)
			require.Error(t, models.ValidateSearchParams(p))
		})
	}
}

func TestValidateSource(t *testing.T) {
	require.NoError(t, models.ValidateSource(models.Source{
		Name:    "dealnews",
		BaseURL: "https://www.dealnews.com",
		Enabled: true,
	}))

	require.Error(t, models.ValidateSource(models.Source{Name: "x", BaseURL: "not-a-url"}))
	require.Error(t, models.ValidateSource(models.Source{BaseURL: "https://ok.example.com"}))
}
