package ports

import (
	"context"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Contract for rendering the fully reduced itinerary into a file.
// Document layout is the renderer's concern, not the planner's.
type DocumentRenderer interface {
	// Render the document and return the created file path.
	RenderDocument(ctx context.Context, doc *domain.ItineraryDocument) (string, error)
}
