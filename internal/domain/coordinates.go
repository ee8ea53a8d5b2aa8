package domain

import "math"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance to another coordinate in
// kilometers (haversine formula). Good enough for day-sized attraction sets;
// no road network is consulted.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Centroid returns the mean coordinate of a point set.
// Returns the zero coordinate for an empty set.
func Centroid(points []Coordinates) Coordinates {
	if len(points) == 0 {
		return Coordinates{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	n := float64(len(points))
	return Coordinates{Lat: sumLat / n, Lon: sumLon / n}
}
