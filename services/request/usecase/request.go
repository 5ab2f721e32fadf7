package usecase

import (
	"context"
	"fmt"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/logger"
	"github.com/drivemate/drivemate/internal/pkg/metrics"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/internal/utils"
	"github.com/drivemate/drivemate/services/request"
	"github.com/drivemate/drivemate/services/request/pricing"
	"github.com/google/uuid"
)

// pendingDashboardLimit caps the claimable request list on the provider
// dashboard.
const pendingDashboardLimit = 10

type requestUC struct {
	cfg        *models.Config
	repo       request.RequestRepo
	providers  request.ProviderDirectory
	calculator *pricing.Calculator
	notifier   request.Notifier
}

// NewRequestUC creates the service request use case
func NewRequestUC(
	cfg *models.Config,
	repo request.RequestRepo,
	providers request.ProviderDirectory,
	calculator *pricing.Calculator,
	notifier request.Notifier,
) request.RequestUC {
	return &requestUC{
		cfg:        cfg,
		repo:       repo,
		providers:  providers,
		calculator: calculator,
		notifier:   notifier,
	}
}

// CreateRequest persists a new pending request, then matches nearby
// providers and prices it against the nearest candidate. Matching failures
// degrade: the request stands with a zero estimate and no candidates, to be
// picked up from the provider dashboard.
func (uc *requestUC) CreateRequest(ctx context.Context, userID uuid.UUID, input models.CreateServiceRequestInput) (*models.CreateServiceRequestResponse, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	req := &models.ServiceRequest{
		RequestID:          models.NewRequestID(),
		UserID:             userID,
		ServiceType:        input.ServiceType,
		FuelType:           input.FuelType,
		Quantity:           input.Quantity,
		ProblemDescription: input.ProblemDescription,
		VehicleType:        input.VehicleType,
		UserAddress:        input.UserAddress,
		UserPhone:          input.UserPhone,
		Location: models.Location{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
		},
		Status:        models.RequestStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}

	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	metrics.RequestsCreated.Inc()

	response := &models.CreateServiceRequestResponse{
		Request:          req,
		NearestProviders: []models.NearbyProvider{},
	}

	nearby, err := uc.providers.FindNearest(ctx, req.Location, req.ServiceType,
		uc.cfg.Match.SearchRadiusMeters, uc.cfg.Match.MaxResults)
	if err != nil {
		logger.Warn("provider matching failed, request stands unmatched",
			logger.String("request_id", req.RequestID),
			logger.Err(err))
	} else if len(nearby) > 0 {
		response.NearestProviders = nearby

		estimate := uc.calculator.Estimate(req, &nearby[0].Provider)
		if err := uc.repo.UpdateEstimate(ctx, req.ID, estimate); err != nil {
			logger.Warn("failed to store cost estimate",
				logger.String("request_id", req.RequestID),
				logger.Err(err))
		} else {
			req.CostEstimate = estimate
		}
		response.CostEstimate = estimate
	}

	uc.notifier.Notify(ctx, models.Notification{
		AccountID: userID,
		Kind:      models.NotificationRequestCreated,
		Title:     "Request received",
		Message:   fmt.Sprintf("Your %s request %s has been created", req.ServiceType, req.RequestID),
		Data:      map[string]interface{}{"request_id": req.RequestID},
	})

	logger.Info("service request created",
		logger.String("request_id", req.RequestID),
		logger.String("service_type", string(req.ServiceType)),
		logger.Int("candidates", len(response.NearestProviders)))

	return response, nil
}

func validateCreateInput(input models.CreateServiceRequestInput) error {
	if !input.ServiceType.IsValid() {
		return apperrors.Validation("service type must be fuel or mechanic")
	}
	if input.Latitude == nil || input.Longitude == nil {
		return apperrors.Validation("latitude and longitude are required")
	}
	if !utils.ValidCoordinates(*input.Latitude, *input.Longitude) {
		return apperrors.Validation("coordinates are out of range")
	}
	if input.UserPhone == "" {
		return apperrors.Validation("contact phone is required")
	}

	switch input.ServiceType {
	case models.ServiceTypeFuel:
		if input.FuelType == nil || !input.FuelType.IsValid() {
			return apperrors.Validation("fuel type must be petrol, diesel or cng")
		}
		if input.Quantity == nil || *input.Quantity <= 0 {
			return apperrors.Validation("fuel quantity must be positive")
		}
	case models.ServiceTypeMechanic:
		if input.ProblemDescription == "" {
			return apperrors.Validation("problem description is required")
		}
	}

	return nil
}

// GetRequest returns a request visible to the caller: its owner or its
// assigned provider.
func (uc *requestUC) GetRequest(ctx context.Context, userID uuid.UUID, requestID string) (*models.ServiceRequest, error) {
	req, err := uc.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.UserID == userID {
		return req, nil
	}
	if p, err := uc.providers.GetProfile(ctx, userID); err == nil &&
		req.AssignedProviderID != nil && *req.AssignedProviderID == p.ID {
		return req, nil
	}

	return nil, apperrors.Forbidden("not a party to this request")
}

// ListMine returns the caller's own requests, newest first
func (uc *requestUC) ListMine(ctx context.Context, userID uuid.UUID) ([]*models.ServiceRequest, error) {
	return uc.repo.ListByUser(ctx, userID)
}

// Dashboard assembles the provider work view: claimable pending requests of
// the provider's service type plus their active assignments.
func (uc *requestUC) Dashboard(ctx context.Context, userID uuid.UUID) (*models.ProviderDashboard, error) {
	p, err := uc.providers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending, err := uc.repo.ListPendingByServiceType(ctx, p.BusinessType.ServiceType(), pendingDashboardLimit)
	if err != nil {
		return nil, err
	}
	active, err := uc.repo.ListActiveByProvider(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if pending == nil {
		pending = []*models.ServiceRequest{}
	}
	if active == nil {
		active = []*models.ServiceRequest{}
	}

	return &models.ProviderDashboard{
		Provider:        p,
		PendingRequests: pending,
		ActiveRequests:  active,
	}, nil
}
