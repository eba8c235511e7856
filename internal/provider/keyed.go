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

// keyedVocabulary covers the camelCase vocabulary spoken by marketplace
// deal APIs of the RapidAPI family.
var keyedVocabulary = vocabulary{
	id:              []string{"id", "dealId"},
	title:           []string{"title", "name", "productName"},
	description:     []string{"description", "summary"},
	price:           []string{"price", "currentPrice"},
	originalPrice:   []string{"originalPrice", "listPrice"},
	discount:        []string{"savings", "discountAmount"},
	discountPercent: []string{"discountPercent"},
	rating:          []string{"rating", "stars"},
	reviewCount:     []string{"reviewCount", "numReviews"},
	category:        []string{"category", "department"},
	store:           []string{"store", "merchant", "retailer"},
	url:             []string{"url", "link", "dealUrl"},
	imageURL:        []string{"image", "imageUrl", "thumbnail"},
	expiration:      []string{"expires", "expirationDate"},
	tags:            []string{"tags", "categories"},
	createdAt:       []string{"dateAdded", "publishDate"},
	popularity:      []string{"popularity", "score"},
	verified:        []string{"verified", "featured"},
}

// KeyedAPIProvider adapts a key-in-header deal API to the Provider
// contract. The key travels in X-RapidAPI-Key / X-RapidAPI-Host headers
// rather than as a bearer credential.
type KeyedAPIProvider struct {
	*client
}

// NewKeyedAPI constructs the keyed API variant. The key is attached to the
// source headers so the shared client sends it on every call.
func NewKeyedAPI(source models.Source, key string, limiter *ratelimit.Limiter, log *slog.Logger) *KeyedAPIProvider {
	headers := map[string]string{
		"X-RapidAPI-Key": key,
	}
	if parsed, err := url.Parse(source.BaseURL); err == nil {
		headers["X-RapidAPI-Host"] = parsed.Hostname()
	}
	for k, v := range source.Headers {
		headers[k] = v
	}
	source.Headers = headers
	source.APIKey = ""

	return &KeyedAPIProvider{client: newClient(source, limiter, log)}
}

func (p *KeyedAPIProvider) Name() string {
	return p.source.Name
}

func (p *KeyedAPIProvider) SearchDeals(ctx context.Context, params models.SearchParams) ([]models.Deal, error) {
	query := url.Values{}
	query.Set("query", params.Query)
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

	payload, err := p.getJSON(ctx, "/search", query)
	if err != nil {
		return nil, err
	}

	return p.collect(items(payload, "results", "deals")), nil
}

func (p *KeyedAPIProvider) TopDeals(ctx context.Context, limit int) ([]models.Deal, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	payload, err := p.getJSON(ctx, "/trending", query)
	if err != nil {
		return nil, err
	}

	return p.collect(items(payload, "deals", "results")), nil
}

func (p *KeyedAPIProvider) DealDetails(ctx context.Context, id string) (*models.Deal, error) {
	payload, err := p.getJSON(ctx, "/deal/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}

	deal := transform(payload, keyedVocabulary, p.source.Name, p.source.Name)
	if err := models.ValidateDeal(deal); err != nil {
		return nil, fmt.Errorf("invalid deal %s: %w", id, err)
	}
	return &deal, nil
}

func (p *KeyedAPIProvider) collect(raw []map[string]any) []models.Deal {
	deals := make([]models.Deal, 0, len(raw))
	for _, item := range raw {
		deals = p.appendValid(deals, transform(item, keyedVocabulary, p.source.Name, p.source.Name))
	}
	return deals
}
