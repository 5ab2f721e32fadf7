package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/constants"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/services/provider"
)

// UpsertGeoLocation mirrors a provider's position into the Redis geo index
// and records the last reported location hash.
func (r *ProviderRepo) UpsertGeoLocation(ctx context.Context, businessType models.BusinessType, providerID string, location models.Location) error {
	geoKey := fmt.Sprintf(constants.KeyProviderGeo, businessType)
	if err := r.redisClient.GeoAdd(ctx, geoKey, location.Longitude, location.Latitude, providerID); err != nil {
		return fmt.Errorf("failed to add provider to geo index: %w", err)
	}

	locationKey := fmt.Sprintf(constants.KeyProviderLocation, providerID)
	locationData := map[string]interface{}{
		constants.FieldLatitude:  location.Latitude,
		constants.FieldLongitude: location.Longitude,
		constants.FieldTimestamp: time.Now().Unix(),
	}
	if err := r.redisClient.HMSet(ctx, locationKey, locationData); err != nil {
		return fmt.Errorf("failed to store provider location: %w", err)
	}

	return nil
}

// SetGeoAvailability adds or removes the provider from the availability set.
// Going offline also drops the provider from the geo index so radius searches
// stop returning it; the last reported location hash is kept for when the
// provider comes back.
func (r *ProviderRepo) SetGeoAvailability(ctx context.Context, businessType models.BusinessType, providerID string, available bool) error {
	availableKey := fmt.Sprintf(constants.KeyAvailableProviders, businessType)
	if available {
		if err := r.redisClient.SAdd(ctx, availableKey, providerID); err != nil {
			return fmt.Errorf("failed to add provider to available set: %w", err)
		}
		return nil
	}
	if err := r.redisClient.SRem(ctx, availableKey, providerID); err != nil {
		return fmt.Errorf("failed to remove provider from available set: %w", err)
	}
	geoKey := fmt.Sprintf(constants.KeyProviderGeo, businessType)
	if err := r.redisClient.ZRem(ctx, geoKey, providerID); err != nil {
		return fmt.Errorf("failed to remove provider from geo index: %w", err)
	}
	return nil
}

// LastReportedLocation reads the provider's last reported position from the
// location hash. A provider that never reported yields a nil location.
func (r *ProviderRepo) LastReportedLocation(ctx context.Context, providerID string) (*models.Location, error) {
	locationKey := fmt.Sprintf(constants.KeyProviderLocation, providerID)
	fields, err := r.redisClient.HGetAll(ctx, locationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider location: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(fields[constants.FieldLatitude], 64)
	if err != nil {
		return nil, fmt.Errorf("malformed latitude in location hash: %w", err)
	}
	lng, err := strconv.ParseFloat(fields[constants.FieldLongitude], 64)
	if err != nil {
		return nil, fmt.Errorf("malformed longitude in location hash: %w", err)
	}

	loc := &models.Location{Latitude: lat, Longitude: lng}
	if ts, err := strconv.ParseInt(fields[constants.FieldTimestamp], 10, 64); err == nil {
		loc.Timestamp = time.Unix(ts, 0)
	}
	return loc, nil
}

// RadiusSearch returns geo-index candidates within the radius, nearest
// first. Results may be stale relative to concurrent availability toggles;
// callers re-validate against the primary store.
func (r *ProviderRepo) RadiusSearch(ctx context.Context, businessType models.BusinessType, origin models.Location, radiusMeters float64) ([]provider.GeoCandidate, error) {
	geoKey := fmt.Sprintf(constants.KeyProviderGeo, businessType)

	results, err := r.redisClient.GeoRadius(ctx, geoKey, origin.Longitude, origin.Latitude, radiusMeters/1000.0, "km", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to search geo index: %w", err)
	}

	availableKey := fmt.Sprintf(constants.KeyAvailableProviders, businessType)
	candidates := make([]provider.GeoCandidate, 0, len(results))
	for _, result := range results {
		available, err := r.redisClient.SIsMember(ctx, availableKey, result.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check provider availability: %w", err)
		}
		if !available {
			continue
		}
		candidates = append(candidates, provider.GeoCandidate{
			ID: result.Name,
			Location: models.Location{
				Latitude:  result.Latitude,
				Longitude: result.Longitude,
			},
			DistanceKm: result.Dist,
		})
	}

	return candidates, nil
}
