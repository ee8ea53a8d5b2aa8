package ports

import (
	"context"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Port: a boundary for retrieving saved Attraction entities from a data source.
type AttractionRepository interface {
	// Retrieve all saved attractions available for planning.
	ListAttractions(ctx context.Context) ([]*domain.Attraction, error)
}
