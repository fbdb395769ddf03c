// Package geo computes great-circle distances between coordinates.
package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371

// DistanceKm returns the haversine distance between two points in kilometres.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Format renders a distance for display: metres rounded to the nearest whole
// number under one kilometre, otherwise kilometres with one decimal.
func Format(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0fm", km*1000)
	}
	return fmt.Sprintf("%.1fkm", km)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
