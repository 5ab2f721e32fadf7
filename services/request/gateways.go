package request

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// Notifier publishes fire-and-forget notifications for downstream delivery.
// Publish failures are logged, never propagated.
type Notifier interface {
	Notify(ctx context.Context, notification models.Notification)
}

// ProviderDirectory is the slice of the provider service this service needs:
// candidate discovery for matching and profile lookups for assignment.
type ProviderDirectory interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	FindNearest(ctx context.Context, origin models.Location, serviceType models.ServiceType, radiusMeters float64, limit int) ([]models.NearbyProvider, error)
}
