package provider

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"bargainer/internal/models"
	"bargainer/internal/normalize"
	"bargainer/internal/ratelimit"
)

// Deal sites that expose no API are scraped. Selectors are tried in
// priority order; the first list selector that yields blocks wins, and per
// field the first matching element wins.
var (
	blockSelectors = []string{".deal-item", ".product-item", ".offer-item"}

	titleSelectors         = []string{".title", ".deal-title", ".product-title", "h3", "h2"}
	priceSelectors         = []string{".price", ".deal-price", ".current-price"}
	originalPriceSelectors = []string{".original-price", ".list-price", ".was-price"}
	storeSelectors         = []string{".store", ".merchant", ".retailer"}

	detailTitleSelectors       = []string{"h1", ".deal-title", ".product-title"}
	detailDescriptionSelectors = []string{".description", ".deal-description", ".product-description"}
	detailRatingSelectors      = []string{".rating", ".stars"}
)

// ScrapeProvider adapts a scraped deal site to the Provider contract by
// parsing one HTML document per call.
type ScrapeProvider struct {
	*client
}

// NewScrape constructs the scrape variant for the given site.
func NewScrape(source models.Source, limiter *ratelimit.Limiter, log *slog.Logger) *ScrapeProvider {
	return &ScrapeProvider{client: newClient(source, limiter, log)}
}

func (p *ScrapeProvider) Name() string {
	return p.source.Name
}

func (p *ScrapeProvider) SearchDeals(ctx context.Context, params models.SearchParams) ([]models.Deal, error) {
	query := url.Values{}
	query.Set("q", params.Query)

	doc, err := p.getDocument(ctx, "/search", query)
	if err != nil {
		return nil, err
	}

	deals := p.extractDeals(doc, params.Limit)
	return deals, nil
}

func (p *ScrapeProvider) TopDeals(ctx context.Context, limit int) ([]models.Deal, error) {
	doc, err := p.getDocument(ctx, "/hot-deals", nil)
	if err != nil {
		return nil, err
	}

	return p.extractDeals(doc, limit), nil
}

func (p *ScrapeProvider) DealDetails(ctx context.Context, id string) (*models.Deal, error) {
	doc, err := p.getDocument(ctx, "/deal/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	title := firstText(doc.Selection, detailTitleSelectors...)
	if title == "" {
		return nil, nil
	}

	deal := models.Deal{
		ID:            p.source.Name + "_" + id,
		Title:         title,
		Description:   firstText(doc.Selection, detailDescriptionSelectors...),
		Price:         normalize.Price(firstText(doc.Selection, priceSelectors...)),
		OriginalPrice: normalize.Price(firstText(doc.Selection, originalPriceSelectors...)),
		Rating:        normalize.Rating(firstText(doc.Selection, detailRatingSelectors...)),
		Store:         storeOrFallback(doc.Selection, p.source.Name),
		URL:           p.source.BaseURL,
		Source:        p.source.Name,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	fillDiscount(&deal)

	if err := models.ValidateDeal(deal); err != nil {
		return nil, fmt.Errorf("invalid deal %s: %w", id, err)
	}
	return &deal, nil
}

func (p *ScrapeProvider) getDocument(ctx context.Context, path string, query url.Values) (*goquery.Document, error) {
	body, err := p.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (p *ScrapeProvider) extractDeals(doc *goquery.Document, limit int) []models.Deal {
	blocks := firstBlocks(doc)
	deals := make([]models.Deal, 0, len(blocks))

	for _, block := range blocks {
		if limit > 0 && len(deals) >= limit {
			break
		}
		deal, ok := p.extractDeal(block)
		if !ok {
			continue
		}
		deals = p.appendValid(deals, deal)
	}

	return deals
}

// extractDeal pulls one candidate block apart. A block missing both a
// title and a URL is not a deal at all and is skipped silently; anything
// else goes through schema validation like every other record.
func (p *ScrapeProvider) extractDeal(block *goquery.Selection) (models.Deal, bool) {
	title := firstText(block, titleSelectors...)
	href, _ := block.Find("a").First().Attr("href")
	if title == "" && strings.TrimSpace(href) == "" {
		return models.Deal{}, false
	}

	imageSrc, _ := block.Find("img").First().Attr("src")

	deal := models.Deal{
		ID:            p.source.Name + "_" + uuid.NewString(),
		Title:         title,
		Price:         normalize.Price(firstText(block, priceSelectors...)),
		OriginalPrice: normalize.Price(firstText(block, originalPriceSelectors...)),
		Store:         storeOrFallback(block, p.source.Name),
		URL:           normalize.AbsoluteURL(p.source.BaseURL, href),
		ImageURL:      normalize.AbsoluteURL(p.source.BaseURL, imageSrc),
		Source:        p.source.Name,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	fillDiscount(&deal)

	return deal, true
}

// firstBlocks returns the blocks matched by the highest-priority selector
// that matches anything.
func firstBlocks(doc *goquery.Document) []*goquery.Selection {
	for _, selector := range blockSelectors {
		matched := doc.Find(selector)
		if matched.Length() == 0 {
			continue
		}
		blocks := make([]*goquery.Selection, 0, matched.Length())
		matched.Each(func(_ int, s *goquery.Selection) {
			blocks = append(blocks, s)
		})
		return blocks
	}
	return nil
}

func firstText(scope *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(scope.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func storeOrFallback(scope *goquery.Selection, fallback string) string {
	if store := firstText(scope, storeSelectors...); store != "" {
		return store
	}
	return fallback
}

func fillDiscount(deal *models.Deal) {
	if deal.OriginalPrice != nil && deal.Price != nil && *deal.OriginalPrice != 0 {
		pct := normalize.DiscountPercent(*deal.OriginalPrice, *deal.Price)
		deal.DiscountPercentage = &pct
	}
}
