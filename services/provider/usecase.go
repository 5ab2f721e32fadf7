package provider

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// ProviderUC defines the provider service use cases
type ProviderUC interface {
	Register(ctx context.Context, userID uuid.UUID, req models.RegisterProviderRequest) (*models.Provider, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*models.Provider, error)
	UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (*models.Provider, error)
	AttachQRCode(ctx context.Context, userID uuid.UUID, image []byte) (*models.Provider, error)
	FindNearest(ctx context.Context, origin models.Location, serviceType models.ServiceType, radiusMeters float64, limit int) ([]models.NearbyProvider, error)
	RecomputeRating(ctx context.Context, id uuid.UUID) (float64, int, error)
}
