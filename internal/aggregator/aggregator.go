package aggregator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"bargainer/internal/models"
	"bargainer/internal/provider"
)

// DefaultLimit is applied when a caller does not cap the result count.
const DefaultLimit = 20

// Aggregator fans requests out to registered providers, merges their
// results, and applies ranking, filtering, and near-duplicate resolution.
// The provider registry is the only state; it is insertion ordered and is
// not mutated while requests are in flight.
type Aggregator struct {
	log     *slog.Logger
	timeout time.Duration

	names     []string
	providers map[string]provider.Provider
}

// New creates an aggregator. Each provider call during fan-out is bounded
// by timeout; a timed-out provider contributes nothing, like any other
// failure.
func New(log *slog.Logger, timeout time.Duration) *Aggregator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{
		log:       log,
		timeout:   timeout,
		providers: make(map[string]provider.Provider),
	}
}

// Add registers a provider under its own name. Re-adding a name replaces
// the provider but keeps its registration position.
func (a *Aggregator) Add(p provider.Provider) {
	name := p.Name()
	if _, exists := a.providers[name]; !exists {
		a.names = append(a.names, name)
	}
	a.providers[name] = p
}

// Remove unregisters a provider by name.
func (a *Aggregator) Remove(name string) {
	if _, exists := a.providers[name]; !exists {
		return
	}
	delete(a.providers, name)
	for i, n := range a.names {
		if n == name {
			a.names = append(a.names[:i], a.names[i+1:]...)
			break
		}
	}
}

// Providers returns the registered provider names in registration order.
func (a *Aggregator) Providers() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// SearchDeals queries the selected providers concurrently, waits for all of
// them, and returns the merged result filtered, sorted, and truncated to
// the requested limit. A failed or slow provider contributes an empty
// slice; siblings are never cancelled.
func (a *Aggregator) SearchDeals(ctx context.Context, params models.SearchParams) []models.Deal {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	merged := a.fanOut(ctx, params.Sources, func(ctx context.Context, p provider.Provider) ([]models.Deal, error) {
		return p.SearchDeals(ctx, params)
	})

	filtered := applySearchFilters(merged, params)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "popularity"
	}
	sortOrder := params.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	sortDeals(filtered, sortBy, sortOrder)

	if len(filtered) > params.Limit {
		filtered = filtered[:params.Limit]
	}
	return filtered
}

// TopDeals asks each selected provider for an even share of the limit,
// merges, and ranks by popularity. The even split is a fairness trade-off,
// not a true global top-k: a source with deeper inventory is under-served
// when provider counts are uneven.
func (a *Aggregator) TopDeals(ctx context.Context, limit int, sources []string) []models.Deal {
	if limit <= 0 {
		limit = DefaultLimit
	}

	selected := a.selectProviders(sources)
	if len(selected) == 0 {
		return []models.Deal{}
	}
	perProvider := (limit + len(selected) - 1) / len(selected)

	merged := a.fanOut(ctx, selected, func(ctx context.Context, p provider.Provider) ([]models.Deal, error) {
		return p.TopDeals(ctx, perProvider)
	})

	sortDeals(merged, "popularity", "desc")
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// DealDetails resolves one record by source-local id. With an explicit
// registered source the lookup is delegated directly; in every other case,
// an unregistered source included, providers are tried sequentially in
// registration order and the first hit wins.
func (a *Aggregator) DealDetails(ctx context.Context, id, source string) *models.Deal {
	if source != "" {
		if p, ok := a.providers[source]; ok {
			return a.details(ctx, p, id)
		}
	}

	for _, name := range a.names {
		if deal := a.details(ctx, a.providers[name], id); deal != nil {
			return deal
		}
	}
	return nil
}

func (a *Aggregator) details(ctx context.Context, p provider.Provider, id string) *models.Deal {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	deal, err := p.DealDetails(callCtx, id)
	if err != nil {
		a.log.Warn("deal details failed",
			slog.String("source", p.Name()),
			slog.String("id", id),
			slog.Any("err", err),
		)
		return nil
	}
	return deal
}

// fanOut issues one call per selected provider concurrently and flattens
// whatever succeeded, preserving provider selection order.
func (a *Aggregator) fanOut(ctx context.Context, sources []string, call func(context.Context, provider.Provider) ([]models.Deal, error)) []models.Deal {
	selected := a.selectProviders(sources)
	results := make([][]models.Deal, len(selected))

	var wg sync.WaitGroup
	for i, name := range selected {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			deals, err := call(callCtx, p)
			if err != nil {
				a.log.Warn("provider call failed",
					slog.String("source", p.Name()),
					slog.Any("err", err),
				)
				return
			}
			results[i] = deals
		}(i, a.providers[name])
	}
	wg.Wait()

	merged := make([]models.Deal, 0)
	for _, deals := range results {
		merged = append(merged, deals...)
	}
	return merged
}

// selectProviders maps the requested source names onto the registered
// subset, or every registered provider when none are named. Order is
// stable: request order for an explicit list, registration order otherwise.
func (a *Aggregator) selectProviders(sources []string) []string {
	if len(sources) == 0 {
		return a.Providers()
	}

	selected := make([]string, 0, len(sources))
	for _, name := range sources {
		if _, ok := a.providers[name]; ok {
			selected = append(selected, name)
		}
	}
	return selected
}
