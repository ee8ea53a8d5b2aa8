package geocode

import (
	"context"
	"fmt"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// MockGeocoder serves coordinates from a fixed table, for tests and
// offline runs.
type MockGeocoder struct {
	m map[string]domain.Coordinates
}

func NewMockGeocoder(coords map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(coords))
	for name, c := range coords {
		m[name] = c
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, name string) (domain.Coordinates, error) {
	c, ok := g.m[name]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("no coordinates for %q", name)
	}
	return c, nil
}
