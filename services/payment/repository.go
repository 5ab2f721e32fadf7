package payment

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// PaymentRepo defines payment persistence operations. Create is
// insert-once: a second payment for the same request fails with a conflict.
type PaymentRepo interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByRequestID(ctx context.Context, requestID string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Payment, error)
}
