package aggregator

import (
	"math"
	"sort"
	"strings"

	"bargainer/internal/models"
	"bargainer/internal/normalize"
)

// comparePriceWindow is the band inside which two prices count as "the
// same" and rating breaks the tie instead.
const comparePriceWindow = 5.0

// applySearchFilters applies the post-hoc constraints carried by search
// params. A record with an absent price or rating passes the numeric
// bounds here; only FilterDeals treats absent fields as failing.
func applySearchFilters(deals []models.Deal, params models.SearchParams) []models.Deal {
	out := make([]models.Deal, 0, len(deals))
	for _, deal := range deals {
		if params.MinPrice != nil && deal.Price != nil && *deal.Price < *params.MinPrice {
			continue
		}
		if params.MaxPrice != nil && deal.Price != nil && *deal.Price > *params.MaxPrice {
			continue
		}
		if params.MinRating != nil && deal.Rating != nil && *deal.Rating < *params.MinRating {
			continue
		}
		if params.Store != "" && !strings.Contains(strings.ToLower(deal.Store), strings.ToLower(params.Store)) {
			continue
		}
		out = append(out, deal)
	}
	return out
}

// sortDeals orders the set in place. Records missing the sort field take
// the worst value for that field: absent price sorts as +Inf, absent
// rating and popularity as 0, and an unparseable createdAt as the oldest
// possible date.
func sortDeals(deals []models.Deal, sortBy, sortOrder string) {
	key := sortKey(sortBy)
	if key == nil {
		return
	}

	sort.SliceStable(deals, func(i, j int) bool {
		a, b := key(deals[i]), key(deals[j])
		if sortOrder == "asc" {
			return a < b
		}
		return a > b
	})
}

func sortKey(sortBy string) func(models.Deal) float64 {
	switch sortBy {
	case "price":
		return func(d models.Deal) float64 {
			if d.Price == nil {
				return math.Inf(1)
			}
			return *d.Price
		}
	case "rating":
		return func(d models.Deal) float64 {
			if d.Rating == nil {
				return 0
			}
			return *d.Rating
		}
	case "popularity":
		return func(d models.Deal) float64 {
			if d.Popularity == nil {
				return 0
			}
			return *d.Popularity
		}
	case "date":
		return func(d models.Deal) float64 {
			ts := normalize.Timestamp(d.CreatedAt)
			if ts.IsZero() {
				return math.Inf(-1)
			}
			return float64(ts.UnixMilli())
		}
	default:
		return nil
	}
}

// FilterDeals applies a predicate filter over an already fetched set,
// independent of provider state. All present dimensions are ANDed; a
// record lacking a field fails any dimension that constrains it.
func (a *Aggregator) FilterDeals(deals []models.Deal, filter models.Filter) []models.Deal {
	out := make([]models.Deal, 0, len(deals))
	for _, deal := range deals {
		if matchesFilter(deal, filter) {
			out = append(out, deal)
		}
	}
	return out
}

func matchesFilter(deal models.Deal, filter models.Filter) bool {
	if len(filter.Categories) > 0 {
		if deal.Category == "" || !containsFold(filter.Categories, deal.Category) {
			return false
		}
	}

	if len(filter.Stores) > 0 {
		if deal.Store == "" || !anySubstringFold(deal.Store, filter.Stores) {
			return false
		}
	}

	if filter.PriceRange != nil {
		if filter.PriceRange.Min != nil && (deal.Price == nil || *deal.Price < *filter.PriceRange.Min) {
			return false
		}
		if filter.PriceRange.Max != nil && (deal.Price == nil || *deal.Price > *filter.PriceRange.Max) {
			return false
		}
	}

	if filter.RatingRange != nil {
		if filter.RatingRange.Min != nil && (deal.Rating == nil || *deal.Rating < *filter.RatingRange.Min) {
			return false
		}
		if filter.RatingRange.Max != nil && (deal.Rating == nil || *deal.Rating > *filter.RatingRange.Max) {
			return false
		}
	}

	if len(filter.Tags) > 0 {
		if len(deal.Tags) == 0 {
			return false
		}
		found := false
		for _, dealTag := range deal.Tags {
			if anySubstringFold(dealTag, filter.Tags) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// CompareDeals groups near-duplicate records by normalized title and keeps
// one representative per group: the cheapest, unless two prices sit within
// $5 of each other, in which case the higher rated record wins. Grouping
// by a truncated normalized title is a heuristic, not exact matching.
func (a *Aggregator) CompareDeals(deals []models.Deal) []models.Deal {
	groups := make(map[string][]models.Deal)
	var order []string

	for _, deal := range deals {
		key := normalize.TitleKey(deal.Title)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], deal)
	}

	best := make([]models.Deal, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) > 1 {
			sort.SliceStable(group, func(i, j int) bool {
				return betterDeal(group[i], group[j])
			})
		}
		best = append(best, group[0])
	}
	return best
}

// betterDeal reports whether a should represent the group over b: price
// ascending, except inside the $5 window where the higher rating wins.
// When either price is missing, rating alone decides.
func betterDeal(a, b models.Deal) bool {
	if a.Price != nil && b.Price != nil {
		diff := *a.Price - *b.Price
		if math.Abs(diff) < comparePriceWindow {
			return ratingOrZero(a) > ratingOrZero(b)
		}
		return diff < 0
	}
	return ratingOrZero(a) > ratingOrZero(b)
}

func ratingOrZero(d models.Deal) float64 {
	if d.Rating == nil {
		return 0
	}
	return *d.Rating
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func anySubstringFold(value string, needles []string) bool {
	lower := strings.ToLower(value)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
