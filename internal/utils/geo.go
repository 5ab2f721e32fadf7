package utils

import (
	"math"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/mmcloughlin/geohash"
)

// GeoPoint represents a geographical point with latitude and longitude
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// movementPrecision: geohash cells of ~150m; provider position samples
// inside the same cell are treated as no movement.
const movementPrecision = 7

// CalculateDistance calculates the great-circle distance between two points
// in kilometers using the Haversine formula.
func CalculateDistance(point1, point2 GeoPoint) float64 {
	// Earth's radius in kilometers
	const earthRadius = 6371.0

	lat1 := point1.Latitude * math.Pi / 180.0
	lon1 := point1.Longitude * math.Pi / 180.0
	lat2 := point2.Latitude * math.Pi / 180.0
	lon2 := point2.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// RoundDistanceKm rounds a distance to one decimal for display
func RoundDistanceKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// EncodeLocation converts a location to its movement-tracking geohash
func EncodeLocation(location models.Location) string {
	return geohash.EncodeWithPrecision(location.Latitude, location.Longitude, movementPrecision)
}

// ValidCoordinates reports whether a latitude/longitude pair is in range
func ValidCoordinates(latitude, longitude float64) bool {
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}
