package utils

import (
	"testing"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// Bangalore city center to the airport, roughly 32 km
	center := GeoPoint{Latitude: 12.9716, Longitude: 77.5946}
	airport := GeoPoint{Latitude: 13.1986, Longitude: 77.7066}

	distance := CalculateDistance(center, airport)
	assert.InDelta(t, 28.0, distance, 2.0)
}

func TestCalculateDistanceZero(t *testing.T) {
	p := GeoPoint{Latitude: 12.9716, Longitude: 77.5946}
	assert.InDelta(t, 0, CalculateDistance(p, p), 1e-9)
}

func TestCalculateDistanceSymmetric(t *testing.T) {
	a := GeoPoint{Latitude: 12.9716, Longitude: 77.5946}
	b := GeoPoint{Latitude: 13.0827, Longitude: 80.2707}
	assert.InDelta(t, CalculateDistance(a, b), CalculateDistance(b, a), 1e-9)
}

func TestRoundDistanceKm(t *testing.T) {
	assert.Equal(t, 1.2, RoundDistanceKm(1.24))
	assert.Equal(t, 1.3, RoundDistanceKm(1.25))
	assert.Equal(t, 0.0, RoundDistanceKm(0.04))
}

func TestEncodeLocationStableWithinCell(t *testing.T) {
	base := models.Location{Latitude: 12.9716, Longitude: 77.5946}
	nudged := models.Location{Latitude: 12.97161, Longitude: 77.59461}
	moved := models.Location{Latitude: 12.9850, Longitude: 77.6100}

	assert.Equal(t, EncodeLocation(base), EncodeLocation(nudged),
		"sub-cell movement maps to the same geohash")
	assert.NotEqual(t, EncodeLocation(base), EncodeLocation(moved))
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(0, 0))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.True(t, ValidCoordinates(90, -180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.1))
}
