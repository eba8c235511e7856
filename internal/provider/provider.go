package provider

import (
	"context"

	"bargainer/internal/models"
)

// Provider is the contract every deal source adapter implements. All three
// operations perform one network call, normalize the raw payload into
// validated Deal records, and report transport or parse trouble as an
// error; the aggregator treats any error as an empty result. DealDetails
// returns (nil, nil) when the id is unknown, so callers cannot distinguish
// "not found" from "failed" at this layer.
type Provider interface {
	Name() string
	SearchDeals(ctx context.Context, params models.SearchParams) ([]models.Deal, error)
	TopDeals(ctx context.Context, limit int) ([]models.Deal, error)
	DealDetails(ctx context.Context, id string) (*models.Deal, error)
}
