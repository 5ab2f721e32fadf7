package payment

import (
	"context"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
)

// PaymentUC defines the settlement business logic contract
type PaymentUC interface {
	ProcessPayment(ctx context.Context, userID uuid.UUID, input models.ProcessPaymentRequest) (*models.Payment, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
	ProviderEarnings(ctx context.Context, userID uuid.UUID) (*models.ProviderEarnings, error)
	SubmitRating(ctx context.Context, userID uuid.UUID, input models.SubmitRatingRequest) (*models.ServiceRequest, error)
}
