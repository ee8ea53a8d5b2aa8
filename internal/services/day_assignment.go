package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// AssignmentOptions tune the day assignment and route ordering stages.
// Zero values mean "unset".
type AssignmentOptions struct {
	// Reorder within fixed days even when no clustering is needed.
	OptimizeOrderByDistance bool
	// Attraction to start each containing day from, when valid.
	StartingPoint string
	// Size bounds for clustered days; enable size-constrained clustering.
	MinAttractionsPerDay int
	MaxAttractionsPerDay int
}

// DayAssignment is a total name -> day mapping covering every attraction
// with a coordinate. UsedClustering reports whether Case B (flexible
// attractions) ran, which gates the approval checkpoint.
type DayAssignment struct {
	Days           map[string]int
	UsedClustering bool
}

// NoCoordinatesError reports flexible attractions lacking coordinates; the
// caller must finish geocoding before assignment runs.
type NoCoordinatesError struct {
	Missing []string
}

func (e *NoCoordinatesError) Error() string {
	return fmt.Sprintf("assign days: %d attraction(s) have no coordinates: %v", len(e.Missing), e.Missing)
}

// NoDaysAvailableError reports that reserved days consume the whole trip
// while flexible attractions remain unplaced.
type NoDaysAvailableError struct {
	ReservedDays int
	Flexible     int
}

func (e *NoDaysAvailableError) Error() string {
	return fmt.Sprintf("assign days: all %d day(s) reserved but %d flexible attraction(s) remain", e.ReservedDays, e.Flexible)
}

// InfeasibleSizeConstraintError names the violated per-day size bound.
// The engine never silently clamps.
type InfeasibleSizeConstraintError struct {
	Bound    string // "min" or "max"
	Limit    int
	Clusters int
	Total    int
}

func (e *InfeasibleSizeConstraintError) Error() string {
	return fmt.Sprintf(
		"assign days: %s_attractions_per_day=%d infeasible for %d attraction(s) across %d day(s)",
		e.Bound, e.Limit, e.Total, e.Clusters,
	)
}

// AssignDays produces the total name -> day mapping.
//
// With no flexible attractions every day comes straight from its constraint
// (Case A). Otherwise the flexible set is clustered geographically and each
// cluster is matched to a concrete day, preferring days already anchored by
// nearby preferred attractions (Case B).
func AssignDays(
	classified *ClassifiedConstraints,
	numDays int,
	store *domain.CoordinateStore,
	opts AssignmentOptions,
) (*DayAssignment, error) {
	days := make(map[string]int)
	for day, names := range classified.IsolatedByDay {
		for _, name := range names {
			days[name] = day
		}
	}
	for day, names := range classified.PreferredByDay {
		for _, name := range names {
			days[name] = day
		}
	}

	// Case A: fully predefined days. Route ordering may still reorder
	// within days, but membership is fixed.
	if len(classified.FlexibleNames) == 0 {
		return &DayAssignment{Days: days}, nil
	}

	if missing := store.Missing(classified.FlexibleNames); len(missing) > 0 {
		return nil, &NoCoordinatesError{Missing: missing}
	}

	reserved := make(map[int]struct{}, len(classified.IsolatedByDay))
	for day := range classified.IsolatedByDay {
		reserved[day] = struct{}{}
	}

	// The pool of cluster targets: every non-reserved day, split into days
	// already holding preferred attractions and completely free days.
	var pool, prefDays, freeDays []int
	for day := 1; day <= numDays; day++ {
		if _, ok := reserved[day]; ok {
			continue
		}
		pool = append(pool, day)
		if len(classified.PreferredByDay[day]) > 0 {
			prefDays = append(prefDays, day)
		} else {
			freeDays = append(freeDays, day)
		}
	}

	if len(pool) == 0 {
		return nil, &NoDaysAvailableError{ReservedDays: len(reserved), Flexible: len(classified.FlexibleNames)}
	}

	total := len(classified.FlexibleNames)
	k := len(pool)
	if total < k {
		k = total
	}

	points := make([]domain.Coordinates, total)
	for i, name := range classified.FlexibleNames {
		points[i], _ = store.Get(name)
	}

	var labels []int
	if opts.MinAttractionsPerDay > 0 || opts.MaxAttractionsPerDay > 0 {
		minSize := opts.MinAttractionsPerDay
		maxSize := opts.MaxAttractionsPerDay
		if maxSize == 0 {
			maxSize = total
		}

		if minSize*k > total {
			return nil, &InfeasibleSizeConstraintError{Bound: "min", Limit: minSize, Clusters: k, Total: total}
		}
		if maxSize*k < total {
			return nil, &InfeasibleSizeConstraintError{Bound: "max", Limit: maxSize, Clusters: k, Total: total}
		}

		labels = kMeansConstrained(points, k, minSize, maxSize)
	} else {
		labels = kMeans(points, k)
	}

	clusterDay := matchClustersToDays(points, labels, k, prefDays, freeDays, classified.PreferredByDay, store)

	for i, name := range classified.FlexibleNames {
		days[name] = clusterDay[labels[i]]
	}

	return &DayAssignment{Days: days, UsedClustering: true}, nil
}

// matchClustersToDays pairs clusters with concrete day numbers. Each
// preference day (ascending) claims the unclaimed cluster whose centroid is
// nearest to the centroid of that day's preferred attractions, keeping
// flexible attractions together with nearby anchored ones. Leftover clusters
// go to free days in cluster-index order; any residue falls back to
// any-unclaimed-to-any-unclaimed.
func matchClustersToDays(
	points []domain.Coordinates,
	labels []int,
	k int,
	prefDays []int,
	freeDays []int,
	preferredByDay map[int][]string,
	store *domain.CoordinateStore,
) map[int]int {
	members := make([][]domain.Coordinates, k)
	for i, l := range labels {
		members[l] = append(members[l], points[i])
	}
	centroids := make([]domain.Coordinates, k)
	for c := 0; c < k; c++ {
		centroids[c] = domain.Centroid(members[c])
	}

	clusterDay := make(map[int]int, k)
	claimed := make([]bool, k)

	sort.Ints(prefDays)
	for _, day := range prefDays {
		var anchor []domain.Coordinates
		for _, name := range preferredByDay[day] {
			if c, ok := store.Get(name); ok {
				anchor = append(anchor, c)
			}
		}
		dayCentroid := domain.Centroid(anchor)

		// Ties on centroid distance go to the lowest cluster index.
		best := -1
		bestDist := math.MaxFloat64
		for c := 0; c < k; c++ {
			if claimed[c] {
				continue
			}
			if d := dayCentroid.DistanceKm(centroids[c]); d < bestDist {
				bestDist = d
				best = c
			}
		}
		if best == -1 {
			break
		}
		claimed[best] = true
		clusterDay[best] = day
	}

	usedDay := make(map[int]bool, k)
	for _, day := range clusterDay {
		usedDay[day] = true
	}

	free := 0
	for c := 0; c < k; c++ {
		if claimed[c] {
			continue
		}
		for free < len(freeDays) && usedDay[freeDays[free]] {
			free++
		}
		if free >= len(freeDays) {
			break
		}
		claimed[c] = true
		clusterDay[c] = freeDays[free]
		usedDay[freeDays[free]] = true
	}

	// Should not occur given k = min(pool, flexible), but tolerate a
	// mismatch by pairing leftovers in ascending order.
	var leftoverDays []int
	for _, day := range append(append([]int{}, prefDays...), freeDays...) {
		if !usedDay[day] {
			leftoverDays = append(leftoverDays, day)
		}
	}
	sort.Ints(leftoverDays)
	for c := 0; c < k && len(leftoverDays) > 0; c++ {
		if claimed[c] {
			continue
		}
		claimed[c] = true
		clusterDay[c] = leftoverDays[0]
		leftoverDays = leftoverDays[1:]
	}

	return clusterDay
}
