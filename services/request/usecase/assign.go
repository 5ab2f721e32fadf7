package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/logger"
	"github.com/drivemate/drivemate/internal/pkg/metrics"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/internal/utils"
	"github.com/google/uuid"
)

// Assign claims a pending request for the calling provider. The claim is a
// single conditional update, so two providers racing for the same request
// resolve to exactly one winner.
func (uc *requestUC) Assign(ctx context.Context, userID uuid.UUID, requestID string) (*models.ServiceRequest, error) {
	p, err := uc.providers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.IsAvailable {
		return nil, apperrors.Conflict("provider is not available for new requests")
	}

	existing, err := uc.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing.ServiceType != p.BusinessType.ServiceType() {
		return nil, apperrors.Conflict("request service type does not match provider capability")
	}

	// The estimate is fixed at creation time; claiming must not change the
	// quote the traveller already saw.
	req, err := uc.repo.Claim(ctx, requestID, p.ID, p.Phone)
	if err != nil {
		return nil, err
	}
	metrics.RequestsAssigned.Inc()

	uc.notifier.Notify(ctx, models.Notification{
		AccountID: req.UserID,
		Kind:      models.NotificationRequestAccepted,
		Title:     "Provider on the way",
		Message:   fmt.Sprintf("%s accepted your request %s", p.BusinessName, req.RequestID),
		Data: map[string]interface{}{
			"request_id":     req.RequestID,
			"provider_id":    p.ID.String(),
			"provider_phone": p.Phone,
		},
	})

	logger.Info("request assigned",
		logger.String("request_id", req.RequestID),
		logger.String("provider_id", p.ID.String()))

	return req, nil
}

// UpdateStatus advances the request lifecycle on behalf of the assigned
// provider, optionally recording the provider's current position when the
// request is in an active state.
func (uc *requestUC) UpdateStatus(ctx context.Context, userID uuid.UUID, requestID string, input models.UpdateStatusRequest) (*models.ServiceRequest, error) {
	target := models.RequestStatus(input.Status)
	if !target.IsValid() {
		return nil, apperrors.Validation("unknown request status")
	}

	p, err := uc.providers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	current, err := uc.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current.AssignedProviderID == nil || *current.AssignedProviderID != p.ID {
		return nil, apperrors.Forbidden("request is not assigned to this provider")
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot move request from %s to %s", current.Status, target))
	}

	req, err := uc.repo.UpdateStatus(ctx, requestID, p.ID, current.Status, target)
	if err != nil {
		return nil, err
	}

	if input.CurrentLat != nil && input.CurrentLng != nil && req.Status.AllowsLocationUpdates() {
		uc.recordProviderPosition(ctx, req, *input.CurrentLat, *input.CurrentLng)
	}

	if req.Status == models.RequestStatusCompleted {
		metrics.RequestsCompleted.Inc()
	}

	uc.notifier.Notify(ctx, models.Notification{
		AccountID: req.UserID,
		Kind:      models.NotificationStatusChanged,
		Title:     "Request update",
		Message:   fmt.Sprintf("Request %s is now %s", req.RequestID, req.Status),
		Data: map[string]interface{}{
			"request_id": req.RequestID,
			"status":     string(req.Status),
		},
	})

	logger.Info("request status updated",
		logger.String("request_id", req.RequestID),
		logger.String("status", string(req.Status)))

	return req, nil
}

// recordProviderPosition appends a tracking point unless the provider is
// still inside the geohash cell of the last recorded point.
func (uc *requestUC) recordProviderPosition(ctx context.Context, req *models.ServiceRequest, lat, lng float64) {
	if !utils.ValidCoordinates(lat, lng) {
		logger.Warn("ignoring out-of-range provider position",
			logger.String("request_id", req.RequestID))
		return
	}

	update := models.LocationUpdate{
		Location:  models.Location{Latitude: lat, Longitude: lng},
		Timestamp: time.Now(),
	}
	update.Geohash = utils.EncodeLocation(update.Location)

	if n := len(req.LocationUpdates); n > 0 && req.LocationUpdates[n-1].Geohash == update.Geohash {
		return
	}

	if err := uc.repo.AppendLocationUpdate(ctx, req.RequestID, update); err != nil {
		logger.Warn("failed to append provider position",
			logger.String("request_id", req.RequestID),
			logger.Err(err))
		return
	}
	req.LocationUpdates = append(req.LocationUpdates, update)
}

// Cancel aborts a request on behalf of its owner
func (uc *requestUC) Cancel(ctx context.Context, userID uuid.UUID, requestID string) (*models.ServiceRequest, error) {
	current, err := uc.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, apperrors.Forbidden("only the request owner can cancel it")
	}
	if current.Status.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("request is already %s", current.Status))
	}

	req, err := uc.repo.Cancel(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if req.AssignedProviderID != nil {
		if p, err := uc.providers.GetByID(ctx, *req.AssignedProviderID); err == nil {
			uc.notifier.Notify(ctx, models.Notification{
				AccountID: p.UserID,
				Kind:      models.NotificationStatusChanged,
				Title:     "Request cancelled",
				Message:   fmt.Sprintf("Request %s was cancelled by the requester", req.RequestID),
				Data:      map[string]interface{}{"request_id": req.RequestID},
			})
		}
	}

	logger.Info("request cancelled", logger.String("request_id", req.RequestID))

	return req, nil
}
