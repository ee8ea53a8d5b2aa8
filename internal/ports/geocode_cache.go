package ports

import (
	"context"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Port: a persistent cache of name -> coordinate lookups.
type GeocodeCache interface {
	// Fetch cached coordinates for the given names.
	GetMany(ctx context.Context, names []string) (map[string]domain.Coordinates, error)
	// Store name -> coordinate mappings in the cache.
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
