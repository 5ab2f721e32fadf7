package usecase

import (
	"context"
	"testing"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentRepo struct {
	payments map[string]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	if _, exists := f.payments[p.RequestID]; exists {
		return apperrors.Conflict("payment already processed for this request")
	}
	p.ID = uuid.New()
	clone := *p
	f.payments[p.RequestID] = &clone
	return nil
}

func (f *fakePaymentRepo) GetByRequestID(_ context.Context, requestID string) (*models.Payment, error) {
	p, ok := f.payments[requestID]
	if !ok {
		return nil, apperrors.NotFound("payment not found")
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListByProvider(_ context.Context, providerID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.ProviderID == providerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeRequestStore struct {
	requests map[string]*models.ServiceRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[string]*models.ServiceRequest)}
}

func (f *fakeRequestStore) GetByRequestID(_ context.Context, requestID string) (*models.ServiceRequest, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return nil, apperrors.NotFound("service request not found")
	}
	clone := *req
	return &clone, nil
}

func (f *fakeRequestStore) SetPaid(_ context.Context, requestID string, actualCost float64) error {
	req, ok := f.requests[requestID]
	if !ok {
		return apperrors.Conflict("service request not found")
	}
	req.PaymentStatus = models.PaymentStatusPaid
	req.ActualCost = &actualCost
	return nil
}

func (f *fakeRequestStore) SetRating(_ context.Context, requestID string, userID uuid.UUID, rating int, review string) (*models.ServiceRequest, error) {
	req, ok := f.requests[requestID]
	if !ok || req.UserID != userID || req.Rating != nil ||
		req.Status != models.RequestStatusCompleted || req.PaymentStatus != models.PaymentStatusPaid {
		return nil, apperrors.Conflict("request is not ratable")
	}
	req.Rating = &rating
	req.Review = review
	clone := *req
	return &clone, nil
}

type fakeProviderDirectory struct {
	providers map[uuid.UUID]*models.Provider
	recounts  []uuid.UUID
}

func newFakeProviderDirectory() *fakeProviderDirectory {
	return &fakeProviderDirectory{providers: make(map[uuid.UUID]*models.Provider)}
}

func (f *fakeProviderDirectory) GetProfile(_ context.Context, userID uuid.UUID) (*models.Provider, error) {
	for _, p := range f.providers {
		if p.UserID == userID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("provider profile not found")
}

func (f *fakeProviderDirectory) GetByID(_ context.Context, id uuid.UUID) (*models.Provider, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, apperrors.NotFound("provider profile not found")
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProviderDirectory) RecomputeRating(_ context.Context, id uuid.UUID) (float64, int, error) {
	f.recounts = append(f.recounts, id)
	p, ok := f.providers[id]
	if !ok {
		return 0, 0, apperrors.NotFound("provider profile not found")
	}
	return p.Rating, p.TotalRatings, nil
}

type fakeNotifier struct {
	sent []models.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n models.Notification) {
	f.sent = append(f.sent, n)
}

type fixture struct {
	uc        *paymentUC
	repo      *fakePaymentRepo
	requests  *fakeRequestStore
	providers *fakeProviderDirectory
	notifier  *fakeNotifier

	ownerID    uuid.UUID
	providerID uuid.UUID
	requestID  string
}

func newFixture() *fixture {
	repo := newFakePaymentRepo()
	requests := newFakeRequestStore()
	providers := newFakeProviderDirectory()
	notifier := &fakeNotifier{}

	fx := &fixture{
		repo:      repo,
		requests:  requests,
		providers: providers,
		notifier:  notifier,
		ownerID:   uuid.New(),
	}

	provider := &models.Provider{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		BusinessName: "Roadside Co",
		BusinessType: models.BusinessTypeMechanic,
		Rating:       4.1,
		TotalRatings: 11,
	}
	providers.providers[provider.ID] = provider
	fx.providerID = provider.ID

	req := &models.ServiceRequest{
		ID:                 uuid.New(),
		RequestID:          "REQ-TEST-00001",
		UserID:             fx.ownerID,
		ServiceType:        models.ServiceTypeMechanic,
		Status:             models.RequestStatusCompleted,
		PaymentStatus:      models.PaymentStatusPending,
		AssignedProviderID: &provider.ID,
		CostEstimate:       models.CostEstimate{AssistanceFee: 100, TravelFee: 50, TotalCost: 150},
	}
	requests.requests[req.RequestID] = req
	fx.requestID = req.RequestID

	fx.uc = NewPaymentUC(&models.Config{}, repo, requests, providers, notifier).(*paymentUC)
	return fx
}

func TestProcessCashPayment(t *testing.T) {
	fx := newFixture()

	p, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
		RequestID:     fx.requestID,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, "CASH-"+fx.requestID, p.TransactionID)
	assert.Equal(t, float64(150), p.Amount, "amount defaults to the estimated total")
	assert.Equal(t, fx.providerID, p.ProviderID)

	stored := fx.requests.requests[fx.requestID]
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	require.NotNil(t, stored.ActualCost)
	assert.Equal(t, float64(150), *stored.ActualCost)

	require.Len(t, fx.notifier.sent, 2, "receipts go to both parties")
}

func TestProcessQRPaymentRequiresTransactionID(t *testing.T) {
	fx := newFixture()

	_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
		RequestID:     fx.requestID,
		PaymentMethod: models.PaymentMethodQR,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	p, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
		RequestID:     fx.requestID,
		PaymentMethod: models.PaymentMethodQR,
		TransactionID: "UPI-12345",
		Amount:        150,
	})
	require.NoError(t, err)
	assert.Equal(t, "UPI-12345", p.TransactionID)
}

func TestProcessPaymentGuards(t *testing.T) {
	t.Run("stranger cannot pay", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.uc.ProcessPayment(context.Background(), uuid.New(), models.ProcessPaymentRequest{
			RequestID:     fx.requestID,
			PaymentMethod: models.PaymentMethodCash,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("incomplete request", func(t *testing.T) {
		fx := newFixture()
		fx.requests.requests[fx.requestID].Status = models.RequestStatusServiceStarted
		_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
			RequestID:     fx.requestID,
			PaymentMethod: models.PaymentMethodCash,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("unknown request", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
			RequestID:     "REQ-MISSING-0",
			PaymentMethod: models.PaymentMethodCash,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("unknown method", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
			RequestID:     fx.requestID,
			PaymentMethod: "barter",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestProcessPaymentTwice(t *testing.T) {
	fx := newFixture()

	_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
		RequestID:     fx.requestID,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, err = fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
		RequestID:     fx.requestID,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestProviderEarnings(t *testing.T) {
	fx := newFixture()
	providerAccount := fx.providers.providers[fx.providerID].UserID

	_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
		RequestID:     fx.requestID,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	earnings, err := fx.uc.ProviderEarnings(context.Background(), providerAccount)
	require.NoError(t, err)
	assert.Equal(t, float64(150), earnings.Total)
	assert.Equal(t, 1, earnings.PaymentCount)
}

func TestSubmitRating(t *testing.T) {
	fx := newFixture()

	_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
		RequestID:     fx.requestID,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	fx.notifier.sent = nil
	rated, err := fx.uc.SubmitRating(context.Background(), fx.ownerID, models.SubmitRatingRequest{
		RequestID: fx.requestID,
		Rating:    5,
		Review:    "fast and friendly",
	})
	require.NoError(t, err)

	require.NotNil(t, rated.Rating)
	assert.Equal(t, 5, *rated.Rating)
	assert.Equal(t, []uuid.UUID{fx.providerID}, fx.providers.recounts,
		"provider reputation is recomputed after a rating")

	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, models.NotificationRatingReceived, fx.notifier.sent[0].Kind)
}

func TestSubmitRatingGuards(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		fx := newFixture()
		for _, rating := range []int{0, 6, -1} {
			_, err := fx.uc.SubmitRating(context.Background(), fx.ownerID, models.SubmitRatingRequest{
				RequestID: fx.requestID,
				Rating:    rating,
			})
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		}
	})

	t.Run("unpaid request", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.uc.SubmitRating(context.Background(), fx.ownerID, models.SubmitRatingRequest{
			RequestID: fx.requestID,
			Rating:    4,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("double rating", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.uc.ProcessPayment(context.Background(), fx.ownerID, models.ProcessPaymentRequest{
			RequestID:     fx.requestID,
			PaymentMethod: models.PaymentMethodCash,
		})
		require.NoError(t, err)

		_, err = fx.uc.SubmitRating(context.Background(), fx.ownerID, models.SubmitRatingRequest{
			RequestID: fx.requestID,
			Rating:    4,
		})
		require.NoError(t, err)

		_, err = fx.uc.SubmitRating(context.Background(), fx.ownerID, models.SubmitRatingRequest{
			RequestID: fx.requestID,
			Rating:    2,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("stranger cannot rate", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.uc.SubmitRating(context.Background(), uuid.New(), models.SubmitRatingRequest{
			RequestID: fx.requestID,
			Rating:    4,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}
