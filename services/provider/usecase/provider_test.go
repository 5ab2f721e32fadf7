package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/imagestore"
	"github.com/drivemate/drivemate/internal/pkg/models"
	pkgprovider "github.com/drivemate/drivemate/services/provider"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProviderRepo struct {
	providers map[uuid.UUID]*models.Provider

	geoLocations    map[string]models.Location
	geoAvailability map[string]bool
	lastReported    map[string]models.Location
	radiusHits      []pkgprovider.GeoCandidate
	radiusErr       error

	createErr error
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{
		providers:       make(map[uuid.UUID]*models.Provider),
		geoLocations:    make(map[string]models.Location),
		geoAvailability: make(map[string]bool),
		lastReported:    make(map[string]models.Location),
	}
}

func (f *fakeProviderRepo) Create(_ context.Context, p *models.Provider) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uuid.New()
	f.providers[p.ID] = p
	return nil
}

func (f *fakeProviderRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Provider, error) {
	for _, p := range f.providers {
		if p.UserID == userID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("provider profile not found")
}

func (f *fakeProviderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Provider, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, apperrors.NotFound("provider profile not found")
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProviderRepo) UpdateAvailability(_ context.Context, id uuid.UUID, available bool) error {
	p, ok := f.providers[id]
	if !ok {
		return apperrors.NotFound("provider profile not found")
	}
	p.IsAvailable = available
	return nil
}

func (f *fakeProviderRepo) UpdateLocation(_ context.Context, id uuid.UUID, location models.Location) error {
	p, ok := f.providers[id]
	if !ok {
		return apperrors.NotFound("provider profile not found")
	}
	p.Location = location
	return nil
}

func (f *fakeProviderRepo) UpdateQRCode(_ context.Context, id uuid.UUID, url, publicID string) error {
	p, ok := f.providers[id]
	if !ok {
		return apperrors.NotFound("provider profile not found")
	}
	p.QRCodeURL = url
	p.QRCodePublicID = publicID
	return nil
}

func (f *fakeProviderRepo) GetServiceable(_ context.Context, businessType models.BusinessType, ids []uuid.UUID) ([]*models.Provider, error) {
	var out []*models.Provider
	for _, id := range ids {
		p, ok := f.providers[id]
		if !ok || p.BusinessType != businessType || !p.IsAvailable || !p.IsVerified {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeProviderRepo) RecomputeRating(_ context.Context, id uuid.UUID) (float64, int, error) {
	p, ok := f.providers[id]
	if !ok {
		return 0, 0, apperrors.NotFound("provider profile not found")
	}
	return p.Rating, p.TotalRatings, nil
}

func (f *fakeProviderRepo) UpsertGeoLocation(_ context.Context, _ models.BusinessType, providerID string, location models.Location) error {
	f.geoLocations[providerID] = location
	f.lastReported[providerID] = location
	return nil
}

func (f *fakeProviderRepo) SetGeoAvailability(_ context.Context, _ models.BusinessType, providerID string, available bool) error {
	f.geoAvailability[providerID] = available
	if !available {
		delete(f.geoLocations, providerID)
	}
	return nil
}

func (f *fakeProviderRepo) LastReportedLocation(_ context.Context, providerID string) (*models.Location, error) {
	loc, ok := f.lastReported[providerID]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (f *fakeProviderRepo) RadiusSearch(_ context.Context, _ models.BusinessType, _ models.Location, _ float64) ([]pkgprovider.GeoCandidate, error) {
	if f.radiusErr != nil {
		return nil, f.radiusErr
	}
	return f.radiusHits, nil
}

type fakeGeocoder struct {
	address string
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, _, _ float64) string {
	return f.address
}

type fakeImageStore struct {
	uploaded  [][]byte
	deleted   []string
	uploadErr error
}

func (f *fakeImageStore) Upload(_ context.Context, image []byte) (*imagestore.Image, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploaded = append(f.uploaded, image)
	return &imagestore.Image{URL: "https://img.example/qr.png", PublicID: "qr-new"}, nil
}

func (f *fakeImageStore) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func testConfig() *models.Config {
	return &models.Config{
		Match: models.MatchConfig{
			SearchRadiusMeters: 20000,
			MaxResults:         5,
		},
		Pricing: models.PricingConfig{
			TravelDistanceKm: 5,
			PetrolPrice:      96.7,
			DieselPrice:      89.6,
			CNGPrice:         75.3,
		},
	}
}

func newTestUC(repo *fakeProviderRepo) (pkgprovider.ProviderUC, *fakeImageStore) {
	store := &fakeImageStore{}
	return NewProviderUC(testConfig(), repo, &fakeGeocoder{address: "1 Main Street"}, store), store
}

func floatPtr(v float64) *float64 { return &v }

func TestRegisterMechanicDefaults(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)

	p, err := uc.Register(context.Background(), uuid.New(), models.RegisterProviderRequest{
		BusinessName: "City Repairs",
		BusinessType: models.BusinessTypeMechanic,
		Services:     []string{"towing", "battery"},
		Phone:        "555-0101",
		Email:        "shop@example.com",
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.NoError(t, err)

	assert.True(t, p.IsVerified)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, float64(100), p.Pricing.AssistanceFee)
	assert.Equal(t, float64(10), p.Pricing.TravelFeePerKm)
	assert.Equal(t, "1 Main Street", p.Address, "address should be geocoded when omitted")
	assert.Contains(t, repo.geoLocations, p.ID.String(), "location should be mirrored into the geo index")
	assert.True(t, repo.geoAvailability[p.ID.String()])
}

func TestRegisterFuelStationRequiresPrices(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)

	_, err := uc.Register(context.Background(), uuid.New(), models.RegisterProviderRequest{
		BusinessName: "Quick Fuel",
		BusinessType: models.BusinessTypeFuelStation,
		Phone:        "555-0102",
		Email:        "fuel@example.com",
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestRegisterMechanicRequiresServices(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)

	_, err := uc.Register(context.Background(), uuid.New(), models.RegisterProviderRequest{
		BusinessName: "Empty Garage",
		BusinessType: models.BusinessTypeMechanic,
		Phone:        "555-0103",
		Email:        "garage@example.com",
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestRegisterRejectsBadCoordinates(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)

	_, err := uc.Register(context.Background(), uuid.New(), models.RegisterProviderRequest{
		BusinessName: "Nowhere Motors",
		BusinessType: models.BusinessTypeMechanic,
		Services:     []string{"towing"},
		Phone:        "555-0104",
		Email:        "nowhere@example.com",
		Latitude:     floatPtr(91),
		Longitude:    floatPtr(0),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSetAvailabilitySyncsGeoIndex(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)
	userID := uuid.New()

	p, err := uc.Register(context.Background(), userID, models.RegisterProviderRequest{
		BusinessName: "City Repairs",
		BusinessType: models.BusinessTypeMechanic,
		Services:     []string{"towing"},
		Phone:        "555-0105",
		Email:        "shop@example.com",
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.NoError(t, err)

	updated, err := uc.SetAvailability(context.Background(), userID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.False(t, repo.geoAvailability[p.ID.String()])

	// No-op toggle leaves state as-is
	again, err := uc.SetAvailability(context.Background(), userID, false)
	require.NoError(t, err)
	assert.False(t, again.IsAvailable)
}

func TestSetAvailabilityRestoresGeoEntry(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)
	userID := uuid.New()

	p, err := uc.Register(context.Background(), userID, models.RegisterProviderRequest{
		BusinessName: "City Repairs",
		BusinessType: models.BusinessTypeMechanic,
		Services:     []string{"towing"},
		Phone:        "555-0105",
		Email:        "shop@example.com",
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.NoError(t, err)

	_, err = uc.UpdateLocation(context.Background(), userID, 13.00, 77.60)
	require.NoError(t, err)

	_, err = uc.SetAvailability(context.Background(), userID, false)
	require.NoError(t, err)
	assert.NotContains(t, repo.geoLocations, p.ID.String(), "offline providers leave the geo index")

	_, err = uc.SetAvailability(context.Background(), userID, true)
	require.NoError(t, err)
	require.Contains(t, repo.geoLocations, p.ID.String())
	assert.Equal(t, 13.00, repo.geoLocations[p.ID.String()].Latitude, "geo entry is restored at the last reported position")
}

func TestUpdateLocationMirrorsGeoIndex(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)
	userID := uuid.New()

	p, err := uc.Register(context.Background(), userID, models.RegisterProviderRequest{
		BusinessName: "City Repairs",
		BusinessType: models.BusinessTypeMechanic,
		Services:     []string{"towing"},
		Phone:        "555-0106",
		Email:        "shop@example.com",
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.NoError(t, err)

	moved, err := uc.UpdateLocation(context.Background(), userID, 13.00, 77.60)
	require.NoError(t, err)
	assert.Equal(t, 13.00, moved.Location.Latitude)
	assert.Equal(t, 13.00, repo.geoLocations[p.ID.String()].Latitude)
}

func TestAttachQRCodeReplacesOldImage(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, store := newTestUC(repo)
	userID := uuid.New()

	p, err := uc.Register(context.Background(), userID, models.RegisterProviderRequest{
		BusinessName: "Quick Fuel",
		BusinessType: models.BusinessTypeFuelStation,
		Phone:        "555-0107",
		Email:        "fuel@example.com",
		PetrolPrice:  96.7,
		DieselPrice:  89.6,
		CNGPrice:     75.3,
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.NoError(t, err)
	repo.providers[p.ID].QRCodePublicID = "qr-old"

	updated, err := uc.AttachQRCode(context.Background(), userID, []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "qr-new", updated.QRCodePublicID)
	assert.Equal(t, []string{"qr-old"}, store.deleted)
}

func TestAttachQRCodeUpstreamFailure(t *testing.T) {
	repo := newFakeProviderRepo()
	store := &fakeImageStore{uploadErr: errors.New("connect refused")}
	uc := NewProviderUC(testConfig(), repo, &fakeGeocoder{address: "x"}, store)
	userID := uuid.New()

	_, err := uc.Register(context.Background(), userID, models.RegisterProviderRequest{
		BusinessName: "City Repairs",
		BusinessType: models.BusinessTypeMechanic,
		Services:     []string{"towing"},
		Phone:        "555-0108",
		Email:        "shop@example.com",
		Latitude:     floatPtr(12.97),
		Longitude:    floatPtr(77.59),
	})
	require.NoError(t, err)

	_, err = uc.AttachQRCode(context.Background(), userID, []byte("png-bytes"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstream))
}

func TestFindNearestOrdersAndFilters(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)
	ctx := context.Background()

	register := func(name string, lat, lng float64) *models.Provider {
		p, err := uc.Register(ctx, uuid.New(), models.RegisterProviderRequest{
			BusinessName: name,
			BusinessType: models.BusinessTypeMechanic,
			Services:     []string{"towing"},
			Phone:        "555-0200",
			Email:        name + "@example.com",
			Latitude:     floatPtr(lat),
			Longitude:    floatPtr(lng),
		})
		require.NoError(t, err)
		return p
	}

	near := register("near", 12.9710, 77.5910)
	far := register("far", 13.0500, 77.6500)
	offline := register("offline", 12.9705, 77.5905)
	repo.providers[offline.ID].IsAvailable = false

	repo.radiusHits = []pkgprovider.GeoCandidate{
		{ID: far.ID.String()},
		{ID: near.ID.String()},
		{ID: offline.ID.String()},
		{ID: "not-a-uuid"},
	}

	origin := models.Location{Latitude: 12.9700, Longitude: 77.5900}
	nearby, err := uc.FindNearest(ctx, origin, models.ServiceTypeMechanic, 0, 0)
	require.NoError(t, err)

	require.Len(t, nearby, 2, "offline providers and junk members are filtered out")
	assert.Equal(t, near.ID, nearby[0].ID)
	assert.Equal(t, far.ID, nearby[1].ID)
	assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)
}

func TestFindNearestEmptyIndex(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)

	nearby, err := uc.FindNearest(context.Background(), models.Location{Latitude: 1, Longitude: 1}, models.ServiceTypeFuel, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestFindNearestLimitsResults(t *testing.T) {
	repo := newFakeProviderRepo()
	uc, _ := newTestUC(repo)
	ctx := context.Background()

	var hits []pkgprovider.GeoCandidate
	for i := 0; i < 4; i++ {
		p, err := uc.Register(ctx, uuid.New(), models.RegisterProviderRequest{
			BusinessName: "garage",
			BusinessType: models.BusinessTypeMechanic,
			Services:     []string{"towing"},
			Phone:        "555-0300",
			Email:        "garage@example.com",
			Latitude:     floatPtr(12.97 + float64(i)*0.01),
			Longitude:    floatPtr(77.59),
		})
		require.NoError(t, err)
		hits = append(hits, pkgprovider.GeoCandidate{ID: p.ID.String()})
	}
	repo.radiusHits = hits

	nearby, err := uc.FindNearest(ctx, models.Location{Latitude: 12.97, Longitude: 77.59}, models.ServiceTypeMechanic, 20000, 2)
	require.NoError(t, err)
	assert.Len(t, nearby, 2)
}
