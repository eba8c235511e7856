package provider

import (
	"time"

	"github.com/google/uuid"

	"bargainer/internal/models"
	"bargainer/internal/normalize"
)

// vocabulary maps one source family's field names onto the canonical deal
// schema. Every entry is an ordered candidate list; the first field present
// on the raw item wins.
type vocabulary struct {
	id              []string
	title           []string
	description     []string
	price           []string
	originalPrice   []string
	discount        []string
	discountPercent []string
	rating          []string
	reviewCount     []string
	category        []string
	store           []string
	url             []string
	imageURL        []string
	expiration      []string
	tags            []string
	createdAt       []string
	popularity      []string
	verified        []string
}

// transform builds a canonical Deal from one raw item using the source
// vocabulary. The result still has to pass schema validation; records with
// missing or malformed required fields are dropped by the caller.
func transform(item map[string]any, vocab vocabulary, source, fallbackStore string) models.Deal {
	deal := models.Deal{
		ID:                 normalize.FirstString(item, vocab.id...),
		Title:              normalize.FirstString(item, vocab.title...),
		Description:        normalize.FirstString(item, vocab.description...),
		Price:              normalize.FirstNumber(item, vocab.price...),
		OriginalPrice:      normalize.FirstNumber(item, vocab.originalPrice...),
		Discount:           normalize.FirstNumber(item, vocab.discount...),
		DiscountPercentage: normalize.FirstNumber(item, vocab.discountPercent...),
		Rating:             normalize.FirstRating(item, vocab.rating...),
		ReviewCount:        normalize.FirstInt(item, vocab.reviewCount...),
		Category:           normalize.FirstString(item, vocab.category...),
		Store:              normalize.FirstString(item, vocab.store...),
		URL:                normalize.FirstString(item, vocab.url...),
		ImageURL:           normalize.FirstString(item, vocab.imageURL...),
		ExpirationDate:     normalize.FirstString(item, vocab.expiration...),
		Tags:               normalize.StringList(item, vocab.tags...),
		Source:             source,
		CreatedAt:          normalize.FirstString(item, vocab.createdAt...),
		Popularity:         normalize.FirstNumber(item, vocab.popularity...),
		Verified:           normalize.FirstBool(item, vocab.verified...),
	}

	if deal.ID == "" {
		deal.ID = source + "_" + uuid.NewString()
	}
	if deal.Store == "" {
		deal.Store = fallbackStore
	}
	if deal.CreatedAt == "" {
		deal.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if deal.DiscountPercentage == nil && deal.OriginalPrice != nil && deal.Price != nil && *deal.OriginalPrice != 0 {
		pct := normalize.DiscountPercent(*deal.OriginalPrice, *deal.Price)
		deal.DiscountPercentage = &pct
	}

	return deal
}
