package domain

import "sort"

// CoordinateStore maps attraction display names to resolved coordinates.
// It is built incrementally as geocoding batches complete and merged
// right-biased: a re-geocoded name overwrites the earlier entry. Entries are
// never deleted during a planning session.
type CoordinateStore struct {
	coords map[string]Coordinates
}

func NewCoordinateStore() *CoordinateStore {
	return &CoordinateStore{coords: make(map[string]Coordinates)}
}

// Merge applies a batch of geocoding results, right-biased on key collision.
func (s *CoordinateStore) Merge(results map[string]Coordinates) {
	for name, c := range results {
		s.coords[name] = c
	}
}

// Get returns the coordinate for a name, if resolved.
func (s *CoordinateStore) Get(name string) (Coordinates, bool) {
	c, ok := s.coords[name]
	return c, ok
}

func (s *CoordinateStore) Len() int { return len(s.coords) }

// Names returns every resolved name in lexical order.
func (s *CoordinateStore) Names() []string {
	names := make([]string, 0, len(s.coords))
	for n := range s.coords {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Missing returns the subset of names that have no resolved coordinate,
// preserving input order.
func (s *CoordinateStore) Missing(names []string) []string {
	var missing []string
	for _, n := range names {
		if _, ok := s.coords[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// Complete reports whether every given name has a resolved coordinate.
func (s *CoordinateStore) Complete(names []string) bool {
	return len(s.Missing(names)) == 0
}
