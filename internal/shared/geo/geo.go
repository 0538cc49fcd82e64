// Package geo measures distances on the WGS-84 ellipsoid.
package geo

import "github.com/tidwall/geodesic"

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// DistanceM returns the geodesic distance between a and b in metres.
func DistanceM(a, b Point) float64 {
	var s12 float64
	geodesic.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, &s12, nil, nil)
	return s12
}

// DistanceKm returns the geodesic distance between a and b in kilometres.
func DistanceKm(a, b Point) float64 {
	return DistanceM(a, b) / 1000
}

// PathKm sums the distance of consecutive points along path.
func PathKm(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += DistanceKm(path[i-1], path[i])
	}
	return total
}

// Within reports whether b lies no further than radiusM metres from a.
func Within(a, b Point, radiusM float64) bool {
	return DistanceM(a, b) <= radiusM
}
