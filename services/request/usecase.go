package request

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// RequestUC defines the service request business logic contract
type RequestUC interface {
	CreateRequest(ctx context.Context, userID uuid.UUID, input models.CreateServiceRequestInput) (*models.CreateServiceRequestResponse, error)
	GetRequest(ctx context.Context, userID uuid.UUID, requestID string) (*models.ServiceRequest, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*models.ServiceRequest, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*models.ProviderDashboard, error)
	Assign(ctx context.Context, userID uuid.UUID, requestID string) (*models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, requestID string, input models.UpdateStatusRequest) (*models.ServiceRequest, error)
	Cancel(ctx context.Context, userID uuid.UUID, requestID string) (*models.ServiceRequest, error)
}
