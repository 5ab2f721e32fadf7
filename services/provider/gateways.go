package provider

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/imagestore"
)

// Geocoder resolves coordinates to a human-readable address, falling back
// to a coordinate string when the upstream service is unavailable.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) string
}

// ImageStore is the opaque photo store used for payment QR codes
type ImageStore = imagestore.Store
