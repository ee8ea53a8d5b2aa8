package services

import (
	"math"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// OrderDayRoute produces a visiting order for one day's attractions using a
// greedy nearest-neighbor traversal over great-circle distances.
//
// The algorithm minimizes immediate travel distance at each step. It does
// not attempt global tour optimization; day-sized attraction counts are
// small, so the approximation is acceptable and keeps the result
// deterministic.
func OrderDayRoute(names []string, store *domain.CoordinateStore, startingPoint string) []string {
	if len(names) <= 1 {
		return append([]string(nil), names...)
	}

	// Attractions without a coordinate cannot be routed; they are appended
	// at the end in their original relative order, never dropped.
	var located, unlocated []string
	coords := make(map[string]domain.Coordinates, len(names))
	for _, name := range names {
		if c, ok := store.Get(name); ok {
			located = append(located, name)
			coords[name] = c
		} else {
			unlocated = append(unlocated, name)
		}
	}

	if len(located) <= 1 {
		return append(located, unlocated...)
	}

	inputIndex := make(map[string]int, len(located))
	for i, name := range located {
		inputIndex[name] = i
	}

	start := startingPoint
	if _, ok := coords[start]; !ok {
		start = nearestToCentroid(located, coords)
	}

	remaining := make(map[string]struct{}, len(located))
	for _, name := range located {
		remaining[name] = struct{}{}
	}

	ordered := make([]string, 0, len(names))
	ordered = append(ordered, start)
	delete(remaining, start)
	current := start

	for len(remaining) > 0 {
		var best string
		bestDist := math.MaxFloat64

		// Select the next stop by minimum distance (greedy step).
		// Tie-breaker on input order keeps the traversal deterministic.
		for _, name := range located {
			if _, ok := remaining[name]; !ok {
				continue
			}
			d := coords[current].DistanceKm(coords[name])
			if d < bestDist || (d == bestDist && inputIndex[name] < inputIndex[best]) {
				bestDist = d
				best = name
			}
		}

		ordered = append(ordered, best)
		delete(remaining, best)
		current = best
	}

	return append(ordered, unlocated...)
}

// nearestToCentroid picks the member closest to the day's mean coordinate,
// breaking ties by first-encountered input order.
func nearestToCentroid(names []string, coords map[string]domain.Coordinates) string {
	points := make([]domain.Coordinates, 0, len(names))
	for _, name := range names {
		points = append(points, coords[name])
	}
	centroid := domain.Centroid(points)

	best := names[0]
	bestDist := coords[best].DistanceKm(centroid)
	for _, name := range names[1:] {
		if d := coords[name].DistanceKm(centroid); d < bestDist {
			bestDist = d
			best = name
		}
	}
	return best
}
