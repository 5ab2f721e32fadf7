package provider

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// GeoCandidate is a raw proximity-search hit from the geo index. Its
// distance comes from the index and is for candidate ordering only; display
// distances are recomputed from stored coordinates.
type GeoCandidate struct {
	ID         string
	Location   models.Location
	DistanceKm float64
}

// ProviderRepo defines provider persistence and geo-index operations
type ProviderRepo interface {
	Create(ctx context.Context, provider *models.Provider) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error
	UpdateLocation(ctx context.Context, id uuid.UUID, location models.Location) error
	UpdateQRCode(ctx context.Context, id uuid.UUID, url, publicID string) error
	GetServiceable(ctx context.Context, businessType models.BusinessType, ids []uuid.UUID) ([]*models.Provider, error)
	RecomputeRating(ctx context.Context, id uuid.UUID) (float64, int, error)

	UpsertGeoLocation(ctx context.Context, businessType models.BusinessType, providerID string, location models.Location) error
	SetGeoAvailability(ctx context.Context, businessType models.BusinessType, providerID string, available bool) error
	LastReportedLocation(ctx context.Context, providerID string) (*models.Location, error)
	RadiusSearch(ctx context.Context, businessType models.BusinessType, origin models.Location, radiusMeters float64) ([]GeoCandidate, error)
}
