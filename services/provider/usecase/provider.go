package usecase

import (
	"context"
	"sort"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/logger"
	"github.com/drivemate/drivemate/internal/pkg/metrics"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/internal/utils"
	"github.com/drivemate/drivemate/services/provider"
	"github.com/google/uuid"
)

// Defaults applied when a registration omits fee fields, matching the
// platform's standard rate card.
const (
	defaultAssistanceFee  = 100
	defaultTravelFeePerKm = 10
)

type providerUC struct {
	cfg        *models.Config
	repo       provider.ProviderRepo
	geocoder   provider.Geocoder
	imageStore provider.ImageStore
}

// NewProviderUC creates the provider use case
func NewProviderUC(
	cfg *models.Config,
	repo provider.ProviderRepo,
	geocoder provider.Geocoder,
	imageStore provider.ImageStore,
) provider.ProviderUC {
	return &providerUC{
		cfg:        cfg,
		repo:       repo,
		geocoder:   geocoder,
		imageStore: imageStore,
	}
}

// Register creates the provider profile for an account. Providers start
// verified and available; their position is mirrored into the geo index so
// they are discoverable immediately.
func (uc *providerUC) Register(ctx context.Context, userID uuid.UUID, req models.RegisterProviderRequest) (*models.Provider, error) {
	if req.BusinessName == "" {
		return nil, apperrors.Validation("business name is required")
	}
	if !req.BusinessType.IsValid() {
		return nil, apperrors.Validation("business type must be fuel-station or mechanic")
	}
	if req.Phone == "" || req.Email == "" {
		return nil, apperrors.Validation("phone and email are required")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, apperrors.Validation("latitude and longitude are required")
	}
	if !utils.ValidCoordinates(*req.Latitude, *req.Longitude) {
		return nil, apperrors.Validation("coordinates are out of range")
	}

	assistanceFee := req.AssistanceFee
	if assistanceFee <= 0 {
		assistanceFee = defaultAssistanceFee
	}
	travelFee := req.TravelFeePerKm
	if travelFee <= 0 {
		travelFee = defaultTravelFeePerKm
	}

	p := &models.Provider{
		UserID:       userID,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Location: models.Location{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		},
		IsVerified:  true,
		IsAvailable: true,
		Pricing: models.ProviderPricing{
			AssistanceFee:  assistanceFee,
			TravelFeePerKm: travelFee,
		},
	}

	switch req.BusinessType {
	case models.BusinessTypeMechanic:
		p.Services = req.Services
	case models.BusinessTypeFuelStation:
		if req.PetrolPrice > 0 || req.DieselPrice > 0 || req.CNGPrice > 0 {
			p.Pricing.FuelPrices = &models.FuelPrices{
				Petrol: req.PetrolPrice,
				Diesel: req.DieselPrice,
				CNG:    req.CNGPrice,
			}
		}
	}

	if err := p.ValidateCapabilities(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	// Auto-fill the business address from coordinates when none was given
	if p.Address == "" {
		p.Address = uc.geocoder.ReverseGeocode(ctx, p.Location.Latitude, p.Location.Longitude)
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// Geo-index mirroring is eventually consistent with the primary store;
	// a failed mirror only delays discoverability.
	uc.mirrorToGeoIndex(ctx, p)
	metrics.ProvidersAvailable.Inc()

	logger.Info("provider registered",
		logger.String("provider_id", p.ID.String()),
		logger.String("business_type", string(p.BusinessType)))

	return p, nil
}

func (uc *providerUC) mirrorToGeoIndex(ctx context.Context, p *models.Provider) {
	if err := uc.repo.UpsertGeoLocation(ctx, p.BusinessType, p.ID.String(), p.Location); err != nil {
		logger.Warn("failed to mirror provider location to geo index",
			logger.String("provider_id", p.ID.String()),
			logger.Err(err))
	}
	if err := uc.repo.SetGeoAvailability(ctx, p.BusinessType, p.ID.String(), p.IsAvailable); err != nil {
		logger.Warn("failed to mirror provider availability",
			logger.String("provider_id", p.ID.String()),
			logger.Err(err))
	}
}

// GetProfile returns the provider profile owned by the account
func (uc *providerUC) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	return uc.repo.GetByUserID(ctx, userID)
}

// GetByID returns a provider by its id
func (uc *providerUC) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	return uc.repo.GetByID(ctx, id)
}

// SetAvailability toggles the availability flag and keeps the geo index in
// step.
func (uc *providerUC) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*models.Provider, error) {
	p, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.IsAvailable == available {
		return p, nil
	}

	if err := uc.repo.UpdateAvailability(ctx, p.ID, available); err != nil {
		return nil, err
	}
	p.IsAvailable = available

	if err := uc.repo.SetGeoAvailability(ctx, p.BusinessType, p.ID.String(), available); err != nil {
		logger.Warn("failed to mirror provider availability",
			logger.String("provider_id", p.ID.String()),
			logger.Err(err))
	}

	if available {
		uc.restoreGeoEntry(ctx, p)
		metrics.ProvidersAvailable.Inc()
	} else {
		metrics.ProvidersAvailable.Dec()
	}

	return p, nil
}

// restoreGeoEntry puts the provider back into the geo index after it comes
// online. Going offline removes the geo entry, so searches would otherwise
// miss the provider until its next location report. The last reported
// position is preferred over the registered one.
func (uc *providerUC) restoreGeoEntry(ctx context.Context, p *models.Provider) {
	location := p.Location
	if last, err := uc.repo.LastReportedLocation(ctx, p.ID.String()); err != nil {
		logger.Warn("failed to read last reported location",
			logger.String("provider_id", p.ID.String()),
			logger.Err(err))
	} else if last != nil {
		location = *last
	}

	if err := uc.repo.UpsertGeoLocation(ctx, p.BusinessType, p.ID.String(), location); err != nil {
		logger.Warn("failed to restore provider geo entry",
			logger.String("provider_id", p.ID.String()),
			logger.Err(err))
	}
}

// UpdateLocation moves the provider's registered point and the geo index
// entry.
func (uc *providerUC) UpdateLocation(ctx context.Context, userID uuid.UUID, latitude, longitude float64) (*models.Provider, error) {
	if !utils.ValidCoordinates(latitude, longitude) {
		return nil, apperrors.Validation("coordinates are out of range")
	}

	p, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	location := models.Location{Latitude: latitude, Longitude: longitude}
	if err := uc.repo.UpdateLocation(ctx, p.ID, location); err != nil {
		return nil, err
	}
	p.Location = location

	if err := uc.repo.UpsertGeoLocation(ctx, p.BusinessType, p.ID.String(), location); err != nil {
		logger.Warn("failed to mirror provider location to geo index",
			logger.String("provider_id", p.ID.String()),
			logger.Err(err))
	}

	return p, nil
}

// AttachQRCode uploads a payment QR image and stores its reference. The old
// image, if any, is deleted best-effort.
func (uc *providerUC) AttachQRCode(ctx context.Context, userID uuid.UUID, image []byte) (*models.Provider, error) {
	if len(image) == 0 {
		return nil, apperrors.Validation("image data is required")
	}

	p, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	uploaded, err := uc.imageStore.Upload(ctx, image)
	if err != nil {
		return nil, apperrors.Upstream("image store unavailable", err)
	}

	oldPublicID := p.QRCodePublicID
	if err := uc.repo.UpdateQRCode(ctx, p.ID, uploaded.URL, uploaded.PublicID); err != nil {
		return nil, err
	}
	p.QRCodeURL = uploaded.URL
	p.QRCodePublicID = uploaded.PublicID

	if oldPublicID != "" {
		if err := uc.imageStore.Delete(ctx, oldPublicID); err != nil {
			logger.Warn("failed to delete replaced qr image",
				logger.String("public_id", oldPublicID),
				logger.Err(err))
		}
	}

	return p, nil
}

// FindNearest answers "nearest available providers of this type within the
// radius". Candidates come from the geo index nearest-first, are
// re-validated against the primary store, and carry an explicitly
// recomputed haversine distance for display.
func (uc *providerUC) FindNearest(ctx context.Context, origin models.Location, serviceType models.ServiceType, radiusMeters float64, limit int) ([]models.NearbyProvider, error) {
	if radiusMeters <= 0 {
		radiusMeters = uc.cfg.Match.SearchRadiusMeters
	}
	if limit <= 0 {
		limit = uc.cfg.Match.MaxResults
	}

	businessType := serviceType.BusinessType()
	candidates, err := uc.repo.RadiusSearch(ctx, businessType, origin, radiusMeters)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []models.NearbyProvider{}, nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, candidate := range candidates {
		id, err := uuid.Parse(candidate.ID)
		if err != nil {
			logger.Warn("geo index entry is not a valid provider id",
				logger.String("member", candidate.ID))
			continue
		}
		ids = append(ids, id)
	}

	providers, err := uc.repo.GetServiceable(ctx, businessType, ids)
	if err != nil {
		return nil, err
	}

	originPoint := utils.GeoPoint{Latitude: origin.Latitude, Longitude: origin.Longitude}
	nearby := make([]models.NearbyProvider, 0, len(providers))
	for _, p := range providers {
		// Recompute the display distance from stored coordinates; the
		// index's distance units are not trusted here.
		distance := utils.CalculateDistance(originPoint, utils.GeoPoint{
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
		})
		nearby = append(nearby, models.NearbyProvider{
			Provider:   *p,
			DistanceKm: utils.RoundDistanceKm(distance),
		})
	}

	// Nearest first, id tie-break for deterministic ordering
	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].ID.String() < nearby[j].ID.String()
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	return nearby, nil
}

// RecomputeRating recalculates the provider's derived reputation
func (uc *providerUC) RecomputeRating(ctx context.Context, id uuid.UUID) (float64, int, error) {
	return uc.repo.RecomputeRating(ctx, id)
}
