package usecase

import (
	"context"
	"fmt"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/logger"
	"github.com/drivemate/drivemate/internal/pkg/metrics"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/services/payment"
	"github.com/google/uuid"
)

type paymentUC struct {
	cfg       *models.Config
	repo      payment.PaymentRepo
	requests  payment.RequestStore
	providers payment.ProviderDirectory
	notifier  payment.Notifier
}

// NewPaymentUC creates the settlement use case
func NewPaymentUC(
	cfg *models.Config,
	repo payment.PaymentRepo,
	requests payment.RequestStore,
	providers payment.ProviderDirectory,
	notifier payment.Notifier,
) payment.PaymentUC {
	return &paymentUC{
		cfg:       cfg,
		repo:      repo,
		requests:  requests,
		providers: providers,
		notifier:  notifier,
	}
}

// ProcessPayment settles a completed request. The insert-once payment
// record is the source of truth for double-payment protection; the paid
// marker on the request follows it.
func (uc *paymentUC) ProcessPayment(ctx context.Context, userID uuid.UUID, input models.ProcessPaymentRequest) (*models.Payment, error) {
	if input.RequestID == "" {
		return nil, apperrors.Validation("request id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, apperrors.Validation("payment method must be cash or qr")
	}
	if input.PaymentMethod.RequiresTransactionID() && input.TransactionID == "" {
		return nil, apperrors.Validation("transaction id is required for qr payments")
	}

	req, err := uc.requests.GetByRequestID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, apperrors.Forbidden("only the request owner can pay for it")
	}
	if req.Status != models.RequestStatusCompleted {
		return nil, apperrors.Conflict("request is not completed yet")
	}
	if req.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperrors.Conflict("payment already processed for this request")
	}
	if req.AssignedProviderID == nil {
		return nil, apperrors.Conflict("request has no assigned provider")
	}

	amount := input.Amount
	if amount <= 0 {
		amount = req.CostEstimate.TotalCost
	}

	transactionID := input.TransactionID
	if input.PaymentMethod == models.PaymentMethodCash {
		transactionID = "CASH-" + req.RequestID
	}

	p := &models.Payment{
		RequestID:     req.RequestID,
		UserID:        req.UserID,
		ProviderID:    *req.AssignedProviderID,
		Amount:        amount,
		Method:        input.PaymentMethod,
		TransactionID: transactionID,
		Status:        "completed",
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := uc.requests.SetPaid(ctx, req.RequestID, amount); err != nil {
		// The payment record exists; the request marker catches up on the
		// next read path that reconciles against payments.
		logger.Error("failed to mark request paid",
			logger.String("request_id", req.RequestID),
			logger.Err(err))
	}
	metrics.PaymentsProcessed.Inc()

	receipt := map[string]interface{}{
		"request_id":     req.RequestID,
		"amount":         amount,
		"payment_method": string(input.PaymentMethod),
		"transaction_id": transactionID,
	}
	uc.notifier.Notify(ctx, models.Notification{
		AccountID: req.UserID,
		Kind:      models.NotificationPaymentReceipt,
		Title:     "Payment confirmed",
		Message:   fmt.Sprintf("Payment of %.2f for request %s received", amount, req.RequestID),
		Data:      receipt,
	})
	if provider, err := uc.providers.GetByID(ctx, p.ProviderID); err == nil {
		uc.notifier.Notify(ctx, models.Notification{
			AccountID: provider.UserID,
			Kind:      models.NotificationPaymentReceipt,
			Title:     "Payment received",
			Message:   fmt.Sprintf("You received %.2f for request %s", amount, req.RequestID),
			Data:      receipt,
		})
	}

	logger.Info("payment processed",
		logger.String("request_id", req.RequestID),
		logger.String("method", string(input.PaymentMethod)),
		logger.Float64("amount", amount))

	return p, nil
}

// History returns the caller's settlement history
func (uc *paymentUC) History(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	payments, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// ProviderEarnings summarizes the calling provider's received payments
func (uc *paymentUC) ProviderEarnings(ctx context.Context, userID uuid.UUID) (*models.ProviderEarnings, error) {
	p, err := uc.providers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	payments, err := uc.repo.ListByProvider(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []models.Payment{}
	}

	earnings := &models.ProviderEarnings{
		PaymentCount: len(payments),
		Payments:     payments,
	}
	for _, pay := range payments {
		earnings.Total += pay.Amount
	}
	return earnings, nil
}

// SubmitRating records a one-time rating for a completed, paid request and
// refreshes the provider's derived reputation.
func (uc *paymentUC) SubmitRating(ctx context.Context, userID uuid.UUID, input models.SubmitRatingRequest) (*models.ServiceRequest, error) {
	if input.RequestID == "" {
		return nil, apperrors.Validation("request id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	req, err := uc.requests.GetByRequestID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, apperrors.Forbidden("only the request owner can rate it")
	}
	if req.Status != models.RequestStatusCompleted || req.PaymentStatus != models.PaymentStatusPaid {
		return nil, apperrors.Conflict("only completed and paid requests can be rated")
	}
	if req.Rating != nil {
		return nil, apperrors.Conflict("request is already rated")
	}

	rated, err := uc.requests.SetRating(ctx, input.RequestID, userID, input.Rating, input.Review)
	if err != nil {
		return nil, err
	}
	metrics.RatingsSubmitted.Inc()

	if rated.AssignedProviderID != nil {
		providerID := *rated.AssignedProviderID
		rating, total, err := uc.providers.RecomputeRating(ctx, providerID)
		if err != nil {
			logger.Warn("failed to recompute provider rating",
				logger.String("provider_id", providerID.String()),
				logger.Err(err))
		} else {
			logger.Info("provider rating updated",
				logger.String("provider_id", providerID.String()),
				logger.Float64("rating", rating),
				logger.Int("total_ratings", total))
		}

		if provider, err := uc.providers.GetByID(ctx, providerID); err == nil {
			uc.notifier.Notify(ctx, models.Notification{
				AccountID: provider.UserID,
				Kind:      models.NotificationRatingReceived,
				Title:     "New rating",
				Message:   fmt.Sprintf("Request %s was rated %d/5", rated.RequestID, input.Rating),
				Data: map[string]interface{}{
					"request_id": rated.RequestID,
					"rating":     input.Rating,
				},
			})
		}
	}

	return rated, nil
}
