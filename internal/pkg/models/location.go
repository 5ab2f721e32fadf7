package models

import "time"

// Location represents a geographical point with latitude and longitude
type Location struct {
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Timestamp time.Time `json:"timestamp,omitempty" db:"timestamp"`
}

// LocationUpdate is one sample of the assigned provider's position while a
// request is active. The log is append-only and timestamped at receipt.
type LocationUpdate struct {
	Location  Location  `json:"location"`
	Geohash   string    `json:"geohash,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
