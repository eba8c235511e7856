package models

import "github.com/go-playground/validator/v10"

// Deal is the canonical record every provider normalizes its raw results
// into. Optional numeric fields are pointers so that "absent" stays
// distinguishable from zero; aggregation never mutates a constructed Deal,
// it only reorders and filters.
type Deal struct {
	ID                 string   `json:"id" validate:"required"`
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	OriginalPrice      *float64 `json:"originalPrice,omitempty"`
	Discount           *float64 `json:"discount,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Rating             *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount        *int     `json:"reviewCount,omitempty" validate:"omitempty,gte=0"`
	Category           string   `json:"category,omitempty"`
	Store              string   `json:"store" validate:"required"`
	URL                string   `json:"url" validate:"required,http_url"`
	ImageURL           string   `json:"imageUrl,omitempty" validate:"omitempty,http_url"`
	ExpirationDate     string   `json:"expirationDate,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Source             string   `json:"source" validate:"required"`
	CreatedAt          string   `json:"createdAt" validate:"required"`
	Popularity         *float64 `json:"popularity,omitempty"`
	Verified           bool     `json:"verified,omitempty"`
}

// SearchParams narrow a cross-provider deal search.
type SearchParams struct {
	Query     string   `json:"query" validate:"required"`
	Category  string   `json:"category,omitempty"`
	MinPrice  *float64 `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	MinRating *float64 `json:"minRating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Store     string   `json:"store,omitempty"`
	SortBy    string   `json:"sortBy,omitempty" validate:"omitempty,oneof=price rating popularity date"`
	SortOrder string   `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
	Limit     int      `json:"limit,omitempty" validate:"gte=1,lte=100"`
	Sources   []string `json:"sources,omitempty"`
}

// Range bounds an optional numeric filter dimension.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Filter describes predicate-based filtering over an already fetched set.
// All present dimensions are ANDed together.
type Filter struct {
	Categories  []string `json:"categories,omitempty"`
	Stores      []string `json:"stores,omitempty"`
	PriceRange  *Range   `json:"priceRange,omitempty"`
	RatingRange *Range   `json:"ratingRange,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Source configures one deal provider.
type Source struct {
	Name      string            `json:"name" validate:"required"`
	BaseURL   string            `json:"baseUrl" validate:"required,http_url"`
	APIKey    string            `json:"apiKey,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	RateLimit int               `json:"rateLimit,omitempty" validate:"omitempty,gte=1"`
	Enabled   bool              `json:"enabled"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateDeal reports whether a normalized record satisfies the canonical
// schema. Providers drop records failing this check instead of surfacing
// them to callers.
func ValidateDeal(d Deal) error {
	return validate.Struct(d)
}

// ValidateSearchParams checks parameter ranges and enum membership before
// the aggregator is invoked.
func ValidateSearchParams(p SearchParams) error {
	return validate.Struct(p)
}

// ValidateSource checks a provider configuration entry.
func ValidateSource(s Source) error {
	return validate.Struct(s)
}
