package request

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// RequestRepo defines service request persistence operations. Claim,
// UpdateStatus, Cancel and SetRating are conditional writes: they update
// only when the row still satisfies the stated precondition, so concurrent
// racers lose cleanly instead of clobbering each other.
type RequestRepo interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	UpdateEstimate(ctx context.Context, id uuid.UUID, estimate models.CostEstimate) error
	GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ServiceRequest, error)
	ListPendingByServiceType(ctx context.Context, serviceType models.ServiceType, limit int) ([]*models.ServiceRequest, error)
	ListActiveByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.ServiceRequest, error)

	// Claim atomically assigns a pending request to a provider. It fails
	// with a conflict when the request is no longer pending.
	Claim(ctx context.Context, requestID string, providerID uuid.UUID, providerPhone string) (*models.ServiceRequest, error)

	// UpdateStatus advances the lifecycle only when the row still holds the
	// expected current status and assignment.
	UpdateStatus(ctx context.Context, requestID string, providerID uuid.UUID, from, to models.RequestStatus) (*models.ServiceRequest, error)

	AppendLocationUpdate(ctx context.Context, requestID string, update models.LocationUpdate) error
	Cancel(ctx context.Context, requestID string, userID uuid.UUID) (*models.ServiceRequest, error)
	SetPaid(ctx context.Context, requestID string, actualCost float64) error
	SetRating(ctx context.Context, requestID string, userID uuid.UUID, rating int, review string) (*models.ServiceRequest, error)
}
