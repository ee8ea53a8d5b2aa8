package services

import (
	"math"
	"math/rand"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Clustering runs use a fixed seed so that two runs over the same
// coordinates produce the same grouping.
const kmeansSeed = 1

const kmeansMaxIterations = 100

// kMeans clusters points into k groups using Lloyd's algorithm and returns a
// label in [0, k) per point. Ties on distance go to the lowest cluster
// index, and initialization is seeded, so the result is reproducible.
func kMeans(points []domain.Coordinates, k int) []int {
	labels := make([]int, len(points))
	if k <= 1 {
		return labels
	}
	if k >= len(points) {
		for i := range labels {
			labels[i] = i
		}
		return labels
	}

	rng := rand.New(rand.NewSource(kmeansSeed))

	centroids := make([]domain.Coordinates, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centroids[i] = points[idx]
	}

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		recomputeCentroids(points, labels, centroids)
		reseedEmptyClusters(points, labels, centroids)

		if !changed && iter > 0 {
			break
		}
	}

	return labels
}

// kMeansConstrained clusters like kMeans and then repairs cluster sizes so
// every cluster holds between minSize and maxSize points. The caller must
// verify feasibility (minSize*k <= len(points) <= maxSize*k) beforehand.
// Unset bounds are passed as 0 and len(points) respectively.
func kMeansConstrained(points []domain.Coordinates, k, minSize, maxSize int) []int {
	labels := kMeans(points, k)
	if k <= 1 {
		return labels
	}

	centroids := make([]domain.Coordinates, k)
	recomputeCentroids(points, labels, centroids)

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	// Drain overfull clusters first: repeatedly move the member farthest from
	// its centroid into the nearest cluster with spare capacity.
	for {
		src := -1
		for c := 0; c < k; c++ {
			if sizes[c] > maxSize && (src == -1 || sizes[c] > sizes[src]) {
				src = c
			}
		}
		if src == -1 {
			break
		}

		move := farthestMember(points, labels, centroids, src)
		dst := nearestClusterWhere(points[move], centroids, func(c int) bool {
			return c != src && sizes[c] < maxSize
		})

		labels[move] = dst
		sizes[src]--
		sizes[dst]++
	}

	// Then fill underfull clusters by pulling the nearest point from a donor
	// that stays at or above the minimum.
	for {
		dst := -1
		for c := 0; c < k; c++ {
			if sizes[c] < minSize && (dst == -1 || sizes[c] < sizes[dst]) {
				dst = c
			}
		}
		if dst == -1 {
			break
		}

		move := -1
		best := math.MaxFloat64
		for i, l := range labels {
			if l == dst || sizes[l] <= minSize {
				continue
			}
			if d := points[i].DistanceKm(centroids[dst]); d < best {
				best = d
				move = i
			}
		}

		sizes[labels[move]]--
		labels[move] = dst
		sizes[dst]++
	}

	return labels
}

func nearestCentroid(p domain.Coordinates, centroids []domain.Coordinates) int {
	best := 0
	bestDist := p.DistanceKm(centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := p.DistanceKm(centroids[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func nearestClusterWhere(p domain.Coordinates, centroids []domain.Coordinates, ok func(int) bool) int {
	best := -1
	bestDist := math.MaxFloat64
	for c := 0; c < len(centroids); c++ {
		if !ok(c) {
			continue
		}
		if d := p.DistanceKm(centroids[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func farthestMember(points []domain.Coordinates, labels []int, centroids []domain.Coordinates, cluster int) int {
	best := -1
	bestDist := -1.0
	for i, l := range labels {
		if l != cluster {
			continue
		}
		if d := points[i].DistanceKm(centroids[cluster]); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func recomputeCentroids(points []domain.Coordinates, labels []int, centroids []domain.Coordinates) {
	members := make([][]domain.Coordinates, len(centroids))
	for i, l := range labels {
		members[l] = append(members[l], points[i])
	}
	for c := range centroids {
		if len(members[c]) > 0 {
			centroids[c] = domain.Centroid(members[c])
		}
	}
}

// A cluster can lose all members during Lloyd's iterations. Reseed it with
// the farthest member of the largest cluster so k stays fixed.
func reseedEmptyClusters(points []domain.Coordinates, labels []int, centroids []domain.Coordinates) {
	sizes := make([]int, len(centroids))
	for _, l := range labels {
		sizes[l]++
	}

	for c := range centroids {
		if sizes[c] > 0 {
			continue
		}

		largest := 0
		for o := 1; o < len(sizes); o++ {
			if sizes[o] > sizes[largest] {
				largest = o
			}
		}
		if sizes[largest] <= 1 {
			continue
		}

		move := farthestMember(points, labels, centroids, largest)
		labels[move] = c
		centroids[c] = points[move]
		sizes[largest]--
		sizes[c]++
	}
}
