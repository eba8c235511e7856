package tools_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bargainer/internal/aggregator"
	"bargainer/internal/models"
	"bargainer/internal/tools"
)

type stubProvider struct {
	name  string
	deals []models.Deal
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) SearchDeals(_ context.Context, _ models.SearchParams) ([]models.Deal, error) {
	return s.deals, nil
}

func (s *stubProvider) TopDeals(_ context.Context, limit int) ([]models.Deal, error) {
	if len(s.deals) > limit {
		return s.deals[:limit], nil
	}
	return s.deals, nil
}

func (s *stubProvider) DealDetails(_ context.Context, id string) (*models.Deal, error) {
	for _, d := range s.deals {
		if d.ID == id {
			deal := d
			return &deal, nil
		}
	}
	return nil, nil
}

func f(v float64) *float64 { return &v }

func stubDeal(id, title string, price float64) models.Deal {
	return models.Deal{
		ID:        id,
		Title:     title,
		Price:     f(price),
		Store:     "Example Store",
		URL:       "https://deals.example.com/" + id,
		Source:    "alpha",
		CreatedAt: "2024-01-02T15:04:05Z",
	}
}

func newHandler(t *testing.T, providers ...*stubProvider) *tools.Handler {
	t.Helper()
	agg := aggregator.New(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)
	for _, p := range providers {
		agg.Add(p)
	}
	return tools.New(agg, nil)
}

func dispatch(t *testing.T, h *tools.Handler, name, args string) any {
	t.Helper()
	out, err := h.Dispatch(context.Background(), name, json.RawMessage(args))
	require.NoError(t, err)
	return out
}

func TestDispatchUnknownTool(t *testing.T) {
	h := newHandler(t)

	_, err := h.Dispatch(context.Background(), "summon_deals", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown tool")
}

func TestSearchDealsTool(t *testing.T) {
	p := &stubProvider{name: "alpha", deals: []models.Deal{
		stubDeal("a1", "Gaming Laptop", 899.99),
		stubDeal("a2", "Gaming Mouse", 29.99),
	}}
	h := newHandler(t, p)

	out := dispatch(t, h, tools.ToolSearchDeals, `{"query": "gaming"}`)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var result struct {
		Success bool `json:"success"`
		Results int  `json:"results"`
		Deals   []struct {
			ID       string   `json:"id"`
			Price    *float64 `json:"price"`
			Verified *bool    `json:"verified"`
		} `json:"deals"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Success)
	require.Equal(t, 2, result.Results)
	require.Len(t, result.Deals, 2)
	// The search projection always carries the verified flag, even when
	// false.
	require.NotNil(t, result.Deals[0].Verified)
	require.False(t, *result.Deals[0].Verified)
}

func TestSearchDealsToolRejectsBadLimit(t *testing.T) {
	h := newHandler(t)

	_, err := h.Dispatch(context.Background(), tools.ToolSearchDeals, json.RawMessage(`{"query": "x", "limit": 500}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "search_deals")
}

func TestSearchDealsToolRejectsBadSort(t *testing.T) {
	h := newHandler(t)

	_, err := h.Dispatch(context.Background(), tools.ToolSearchDeals, json.RawMessage(`{"query": "x", "sortBy": "alphabetical"}`))
	require.Error(t, err)
}

func TestTopDealsTool(t *testing.T) {
	hi, lo := f(90.0), f(10.0)
	a := stubDeal("a1", "Alpha Deal", 50)
	a.Popularity = lo
	b := stubDeal("b1", "Beta Deal", 60)
	b.Source = "beta"
	b.Popularity = hi

	h := newHandler(t,
		&stubProvider{name: "alpha", deals: []models.Deal{a}},
		&stubProvider{name: "beta", deals: []models.Deal{b}},
	)

	out := dispatch(t, h, tools.ToolGetTopDeals, `{"limit": 5}`)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var result struct {
		Success bool `json:"success"`
		Deals   []struct {
			ID         string   `json:"id"`
			Popularity *float64 `json:"popularity"`
		} `json:"deals"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Success)
	require.Len(t, result.Deals, 2)
	require.Equal(t, "b1", result.Deals[0].ID)
	require.NotNil(t, result.Deals[0].Popularity)
}

func TestTopDealsToolDefaultsAndBounds(t *testing.T) {
	h := newHandler(t, &stubProvider{name: "alpha"})

	// Empty args fall back to the default limit.
	out := dispatch(t, h, tools.ToolGetTopDeals, `{}`)
	require.NotNil(t, out)

	_, err := h.Dispatch(context.Background(), tools.ToolGetTopDeals, json.RawMessage(`{"limit": 101}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "between 1 and 100")

	_, err = h.Dispatch(context.Background(), tools.ToolGetTopDeals, json.RawMessage(`{"limit": -1}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "between 1 and 100")
}

func TestFilterDealsTool(t *testing.T) {
	h := newHandler(t)

	cheap := stubDeal("a1", "Budget Keyboard", 25)
	pricey := stubDeal("a2", "Mechanical Keyboard", 180)
	payload, err := json.Marshal(map[string]any{
		"deals":      []models.Deal{cheap, pricey},
		"priceRange": map[string]float64{"max": 100},
	})
	require.NoError(t, err)

	out := dispatch(t, h, tools.ToolFilterDeals, string(payload))

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var result struct {
		Success       bool          `json:"success"`
		OriginalCount int           `json:"original_count"`
		FilteredCount int           `json:"filtered_count"`
		Deals         []models.Deal `json:"deals"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Success)
	require.Equal(t, 2, result.OriginalCount)
	require.Equal(t, 1, result.FilteredCount)
	require.Equal(t, "a1", result.Deals[0].ID)
}

func TestFilterDealsToolRequiresDeals(t *testing.T) {
	h := newHandler(t)

	_, err := h.Dispatch(context.Background(), tools.ToolFilterDeals, json.RawMessage(`{"minRating": 4}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "deals is required")
}

func TestDealDetailsTool(t *testing.T) {
	p := &stubProvider{name: "alpha", deals: []models.Deal{stubDeal("a1", "Gaming Laptop", 899.99)}}
	h := newHandler(t, p)

	out := dispatch(t, h, tools.ToolGetDealDetails, `{"dealId": "a1"}`)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var result struct {
		Success bool         `json:"success"`
		Deal    *models.Deal `json:"deal"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Success)
	require.NotNil(t, result.Deal)
	require.Equal(t, "a1", result.Deal.ID)
}

func TestDealDetailsToolAbsent(t *testing.T) {
	h := newHandler(t, &stubProvider{name: "alpha"})

	out := dispatch(t, h, tools.ToolGetDealDetails, `{"dealId": "ghost"}`)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var result struct {
		Success bool         `json:"success"`
		Deal    *models.Deal `json:"deal"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.False(t, result.Success)
	require.Nil(t, result.Deal)
}

func TestDealDetailsToolRequiresID(t *testing.T) {
	h := newHandler(t)

	_, err := h.Dispatch(context.Background(), tools.ToolGetDealDetails, json.RawMessage(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "dealId is required")
}

func TestCompareDealsTool(t *testing.T) {
	h := newHandler(t)

	a := stubDeal("a1", "ASUS ROG Laptop", 899.99)
	a.Rating = f(4.5)
	b := stubDeal("b1", "ASUS ROG Laptop!", 895.00)
	b.Source = "beta"
	b.Rating = f(4.2)

	payload, err := json.Marshal(map[string]any{"deals": []models.Deal{a, b}})
	require.NoError(t, err)

	out := dispatch(t, h, tools.ToolCompareDeals, string(payload))

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var result struct {
		Success        bool          `json:"success"`
		OriginalCount  int           `json:"original_count"`
		BestDealsCount int           `json:"best_deals_count"`
		BestDeals      []models.Deal `json:"best_deals"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Success)
	require.Equal(t, 2, result.OriginalCount)
	require.Equal(t, 1, result.BestDealsCount)
	require.Equal(t, "a1", result.BestDeals[0].ID)
}

func TestCompareDealsToolRequiresDeals(t *testing.T) {
	h := newHandler(t)

	_, err := h.Dispatch(context.Background(), tools.ToolCompareDeals, json.RawMessage(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "deals is required")
}

func TestSourcesTool(t *testing.T) {
	h := newHandler(t,
		&stubProvider{name: "alpha"},
		&stubProvider{name: "beta"},
	)

	out := dispatch(t, h, tools.ToolGetSources, ``)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var result struct {
		Success bool     `json:"success"`
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Success)
	require.Equal(t, []string{"alpha", "beta"}, result.Sources)
}

func TestCatalogCoversEveryTool(t *testing.T) {
	catalog := tools.Catalog()
	require.Len(t, catalog, 6)

	names := make(map[string]bool, len(catalog))
	for _, info := range catalog {
		require.NotEmpty(t, info.Description)
		names[info.Name] = true
	}
	for _, name := range []string{
		tools.ToolSearchDeals,
		tools.ToolGetTopDeals,
		tools.ToolFilterDeals,
		tools.ToolGetDealDetails,
		tools.ToolCompareDeals,
		tools.ToolGetSources,
	} {
		require.True(t, names[name], name)
	}
}
