package ports

import (
	"context"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Contract for resolving a place name or address to coordinates.
// Implementations resolve one name at a time; the planning pipeline calls
// this sequentially to respect third-party rate limits.
type Geocoder interface {
	// Return the coordinates for a single place name. May time out.
	Geocode(ctx context.Context, name string) (domain.Coordinates, error)
}
