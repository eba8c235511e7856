package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"bargainer/internal/models"
	"bargainer/internal/ratelimit"
)

// apiVocabulary covers the snake_case vocabulary spoken by community deal
// APIs of the Slickdeals family.
var apiVocabulary = vocabulary{
	id:              []string{"id", "deal_id"},
	title:           []string{"title", "deal_title"},
	description:     []string{"description", "deal_description"},
	price:           []string{"price", "deal_price"},
	originalPrice:   []string{"original_price", "list_price"},
	discount:        []string{"discount_amount"},
	discountPercent: []string{"discount_percentage"},
	rating:          []string{"rating", "deal_rating"},
	reviewCount:     []string{"review_count", "reviews"},
	category:        []string{"category", "deal_category"},
	store:           []string{"store", "merchant", "retailer"},
	url:             []string{"url", "deal_url", "link"},
	imageURL:        []string{"image_url", "thumbnail", "image"},
	expiration:      []string{"expiration_date", "expires_at"},
	tags:            []string{"tags", "keywords"},
	createdAt:       []string{"created_at", "posted_at"},
	popularity:      []string{"popularity", "thumbs_up", "likes"},
	verified:        []string{"verified", "staff_pick"},
}

// APIProvider adapts an authenticated deal API (bearer credential, v2-style
// endpoints) to the Provider contract.
type APIProvider struct {
	*client
}

// NewAPI constructs the authenticated API variant for the given source.
func NewAPI(source models.Source, limiter *ratelimit.Limiter, log *slog.Logger) *APIProvider {
	return &APIProvider{client: newClient(source, limiter, log)}
}

func (p *APIProvider) Name() string {
	return p.source.Name
}

func (p *APIProvider) SearchDeals(ctx context.Context, params models.SearchParams) ([]models.Deal, error) {
	query := url.Values{}
	query.Set("q", params.Query)
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.MinPrice != nil {
		query.Set("min_price", formatPrice(*params.MinPrice))
	}
	if params.MaxPrice != nil {
		query.Set("max_price", formatPrice(*params.MaxPrice))
	}
	if params.Store != "" {
		query.Set("store", params.Store)
	}

	payload, err := p.getJSON(ctx, "/v2/deals/search", query)
	if err != nil {
		return nil, err
	}

	return p.collect(items(payload, "deals", "results")), nil
}

func (p *APIProvider) TopDeals(ctx context.Context, limit int) ([]models.Deal, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	payload, err := p.getJSON(ctx, "/v2/deals/trending", query)
	if err != nil {
		return nil, err
	}

	return p.collect(items(payload, "deals", "results")), nil
}

func (p *APIProvider) DealDetails(ctx context.Context, id string) (*models.Deal, error) {
	payload, err := p.getJSON(ctx, "/v2/deals/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	item, ok := payload["deal"].(map[string]any)
	if !ok {
		return nil, nil
	}

	deal := transform(item, apiVocabulary, p.source.Name, p.source.Name)
	if err := models.ValidateDeal(deal); err != nil {
		return nil, fmt.Errorf("invalid deal %s: %w", id, err)
	}
	return &deal, nil
}

func (p *APIProvider) collect(raw []map[string]any) []models.Deal {
	deals := make([]models.Deal, 0, len(raw))
	for _, item := range raw {
		deals = p.appendValid(deals, transform(item, apiVocabulary, p.source.Name, p.source.Name))
	}
	return deals
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
