package payment

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// Notifier publishes fire-and-forget notifications for downstream delivery
type Notifier interface {
	Notify(ctx context.Context, notification models.Notification)
}

// RequestStore is the slice of the request service settlement needs: the
// request being settled, its paid marker and its one-time rating.
type RequestStore interface {
	GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error)
	SetPaid(ctx context.Context, requestID string, actualCost float64) error
	SetRating(ctx context.Context, requestID string, userID uuid.UUID, rating int, review string) (*models.ServiceRequest, error)
}

// ProviderDirectory is the slice of the provider service settlement needs:
// profile lookups and the rating recompute after a review lands.
type ProviderDirectory interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Provider, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	RecomputeRating(ctx context.Context, id uuid.UUID) (float64, int, error)
}
