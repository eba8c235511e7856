package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"bargainer/internal/aggregator"
	"bargainer/internal/models"
)

// Tool names accepted by Dispatch.
const (
	ToolSearchDeals    = "search_deals"
	ToolGetTopDeals    = "get_top_deals"
	ToolFilterDeals    = "filter_deals"
	ToolGetDealDetails = "get_deal_details"
	ToolCompareDeals   = "compare_deals"
	ToolGetSources     = "get_available_sources"
)

// Handler validates tool arguments, invokes the aggregator, and shapes
// JSON-serializable results. It assumes nothing about the transport that
// carries the calls.
type Handler struct {
	agg *aggregator.Aggregator
	log *slog.Logger
}

// New creates a tool handler over the given aggregator.
func New(agg *aggregator.Aggregator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{agg: agg, log: log}
}

// Info describes one tool for discovery.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog lists every tool the handler dispatches.
func Catalog() []Info {
	return []Info{
		{Name: ToolSearchDeals, Description: "Search for deals across multiple sources based on text query and filters"},
		{Name: ToolGetTopDeals, Description: "Get top/trending deals from all or specific sources"},
		{Name: ToolFilterDeals, Description: "Filter an already fetched deal list using advanced criteria"},
		{Name: ToolGetDealDetails, Description: "Get detailed information about a specific deal"},
		{Name: ToolCompareDeals, Description: "Compare similar deals and find the best options"},
		{Name: ToolGetSources, Description: "Get the list of available deal sources/providers"},
	}
}

// Dispatch routes one tool call by name. An unknown tool name is an
// explicit error result for the caller, never a crash.
func (h *Handler) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {
	case ToolSearchDeals:
		return h.searchDeals(ctx, args)
	case ToolGetTopDeals:
		return h.topDeals(ctx, args)
	case ToolFilterDeals:
		return h.filterDeals(args)
	case ToolGetDealDetails:
		return h.dealDetails(ctx, args)
	case ToolCompareDeals:
		return h.compareDeals(args)
	case ToolGetSources:
		return h.sources(), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// summary is the compact projection returned for search and top-deal
// results; full records travel only through details, filter, and compare.
type summary struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Price              *float64 `json:"price,omitempty"`
	OriginalPrice      *float64 `json:"originalPrice,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Rating             *float64 `json:"rating,omitempty"`
	Store              string   `json:"store"`
	URL                string   `json:"url"`
	Source             string   `json:"source"`
	Verified           *bool    `json:"verified,omitempty"`
	Popularity         *float64 `json:"popularity,omitempty"`
}

type searchResult struct {
	Success bool      `json:"success"`
	Results int       `json:"results"`
	Deals   []summary `json:"deals"`
}

type filterResult struct {
	Success       bool          `json:"success"`
	OriginalCount int           `json:"original_count"`
	FilteredCount int           `json:"filtered_count"`
	Deals         []models.Deal `json:"deals"`
}

type detailsResult struct {
	Success bool         `json:"success"`
	Deal    *models.Deal `json:"deal"`
}

type compareResult struct {
	Success        bool          `json:"success"`
	OriginalCount  int           `json:"original_count"`
	BestDealsCount int           `json:"best_deals_count"`
	BestDeals      []models.Deal `json:"best_deals"`
}

type sourcesResult struct {
	Success bool     `json:"success"`
	Sources []string `json:"sources"`
}

func (h *Handler) searchDeals(ctx context.Context, args json.RawMessage) (any, error) {
	var params models.SearchParams
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("search_deals: %w", err)
	}
	if params.Limit == 0 {
		params.Limit = aggregator.DefaultLimit
	}
	if err := models.ValidateSearchParams(params); err != nil {
		return nil, fmt.Errorf("search_deals: %w", err)
	}

	deals := h.agg.SearchDeals(ctx, params)

	out := make([]summary, 0, len(deals))
	for _, deal := range deals {
		verified := deal.Verified
		out = append(out, summary{
			ID:                 deal.ID,
			Title:              deal.Title,
			Price:              deal.Price,
			OriginalPrice:      deal.OriginalPrice,
			DiscountPercentage: deal.DiscountPercentage,
			Rating:             deal.Rating,
			Store:              deal.Store,
			URL:                deal.URL,
			Source:             deal.Source,
			Verified:           &verified,
		})
	}
	return searchResult{Success: true, Results: len(out), Deals: out}, nil
}

type topDealsArgs struct {
	Limit   int      `json:"limit"`
	Sources []string `json:"sources,omitempty"`
}

func (h *Handler) topDeals(ctx context.Context, args json.RawMessage) (any, error) {
	var params topDealsArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("get_top_deals: %w", err)
		}
	}
	if params.Limit == 0 {
		params.Limit = aggregator.DefaultLimit
	}
	if params.Limit < 1 || params.Limit > 100 {
		return nil, fmt.Errorf("get_top_deals: limit must be between 1 and 100")
	}

	deals := h.agg.TopDeals(ctx, params.Limit, params.Sources)

	out := make([]summary, 0, len(deals))
	for _, deal := range deals {
		out = append(out, summary{
			ID:                 deal.ID,
			Title:              deal.Title,
			Price:              deal.Price,
			OriginalPrice:      deal.OriginalPrice,
			DiscountPercentage: deal.DiscountPercentage,
			Rating:             deal.Rating,
			Store:              deal.Store,
			URL:                deal.URL,
			Source:             deal.Source,
			Popularity:         deal.Popularity,
		})
	}
	return searchResult{Success: true, Results: len(out), Deals: out}, nil
}

type filterArgs struct {
	Deals []models.Deal `json:"deals"`
	models.Filter
}

func (h *Handler) filterDeals(args json.RawMessage) (any, error) {
	var params filterArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("filter_deals: %w", err)
	}
	if params.Deals == nil {
		return nil, fmt.Errorf("filter_deals: deals is required")
	}

	filtered := h.agg.FilterDeals(params.Deals, params.Filter)
	return filterResult{
		Success:       true,
		OriginalCount: len(params.Deals),
		FilteredCount: len(filtered),
		Deals:         filtered,
	}, nil
}

type detailsArgs struct {
	DealID string `json:"dealId"`
	Source string `json:"source,omitempty"`
}

func (h *Handler) dealDetails(ctx context.Context, args json.RawMessage) (any, error) {
	var params detailsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("get_deal_details: %w", err)
	}
	if params.DealID == "" {
		return nil, fmt.Errorf("get_deal_details: dealId is required")
	}

	deal := h.agg.DealDetails(ctx, params.DealID, params.Source)
	return detailsResult{Success: deal != nil, Deal: deal}, nil
}

type compareArgs struct {
	Deals []models.Deal `json:"deals"`
}

func (h *Handler) compareDeals(args json.RawMessage) (any, error) {
	var params compareArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("compare_deals: %w", err)
	}
	if params.Deals == nil {
		return nil, fmt.Errorf("compare_deals: deals is required")
	}

	best := h.agg.CompareDeals(params.Deals)
	return compareResult{
		Success:        true,
		OriginalCount:  len(params.Deals),
		BestDealsCount: len(best),
		BestDeals:      best,
	}, nil
}

func (h *Handler) sources() any {
	return sourcesResult{Success: true, Sources: h.agg.Providers()}
}
