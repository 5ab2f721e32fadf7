package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/database"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ProviderRepo implements the provider repository interface over Postgres
// and the Redis geo index.
type ProviderRepo struct {
	cfg         *models.Config
	db          *sqlx.DB
	redisClient *database.RedisClient
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(
	cfg *models.Config,
	db *sqlx.DB,
	redisClient *database.RedisClient,
) *ProviderRepo {
	return &ProviderRepo{
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}
}

const providerColumns = `
	id, user_id, business_name, business_type, services,
	address, phone, email,
	(location[0])::float8 as longitude,
	(location[1])::float8 as latitude,
	is_verified, is_available,
	assistance_fee, travel_fee_per_km,
	petrol_price, diesel_price, cng_price,
	rating, total_ratings,
	qr_code_url, qr_code_public_id,
	created_at, updated_at
`

// Create inserts a new provider profile. The unique constraint on user_id
// enforces one profile per account.
func (r *ProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}
	now := time.Now()
	provider.CreatedAt = now
	provider.UpdatedAt = now

	var petrol, diesel, cng sql.NullFloat64
	if fp := provider.Pricing.FuelPrices; fp != nil {
		petrol = sql.NullFloat64{Float64: fp.Petrol, Valid: true}
		diesel = sql.NullFloat64{Float64: fp.Diesel, Valid: true}
		cng = sql.NullFloat64{Float64: fp.CNG, Valid: true}
	}

	query := `
		INSERT INTO providers (
			id, user_id, business_name, business_type, services,
			address, phone, email, location,
			is_verified, is_available,
			assistance_fee, travel_fee_per_km,
			petrol_price, diesel_price, cng_price,
			rating, total_ratings, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			point($9, $10), $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		provider.ID, provider.UserID, provider.BusinessName, provider.BusinessType,
		pq.Array(provider.Services),
		provider.Address, provider.Phone, provider.Email,
		provider.Location.Longitude, provider.Location.Latitude,
		provider.IsVerified, provider.IsAvailable,
		provider.Pricing.AssistanceFee, provider.Pricing.TravelFeePerKm,
		petrol, diesel, cng,
		provider.Rating, provider.TotalRatings,
		provider.CreatedAt, provider.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("provider profile already registered for this account")
		}
		return fmt.Errorf("failed to insert provider: %w", err)
	}

	return nil
}

// GetByUserID retrieves the provider profile owned by an account
func (r *ProviderRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers WHERE user_id = $1`, providerColumns)
	return r.queryProvider(ctx, query, userID)
}

// GetByID retrieves a provider by its id
func (r *ProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers WHERE id = $1`, providerColumns)
	return r.queryProvider(ctx, query, id)
}

func (r *ProviderRepo) queryProvider(ctx context.Context, query string, arg interface{}) (*models.Provider, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	provider, err := scanProvider(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("provider profile not found")
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return provider, nil
}

// UpdateAvailability sets the provider-toggled availability flag
func (r *ProviderRepo) UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `UPDATE providers SET is_available = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, available, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	return requireRow(result, "provider not found")
}

// UpdateLocation moves the provider's registered point
func (r *ProviderRepo) UpdateLocation(ctx context.Context, id uuid.UUID, location models.Location) error {
	query := `UPDATE providers SET location = point($2, $3), updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, location.Longitude, location.Latitude, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	return requireRow(result, "provider not found")
}

// UpdateQRCode stores the image-store reference for the provider's payment QR
func (r *ProviderRepo) UpdateQRCode(ctx context.Context, id uuid.UUID, url, publicID string) error {
	query := `UPDATE providers SET qr_code_url = $2, qr_code_public_id = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, url, publicID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update qr code: %w", err)
	}
	return requireRow(result, "provider not found")
}

// GetServiceable re-validates geo-index candidates against the source of
// truth: only available, verified providers of the requested business type
// are returned.
func (r *ProviderRepo) GetServiceable(ctx context.Context, businessType models.BusinessType, ids []uuid.UUID) ([]*models.Provider, error) {
	if len(ids) == 0 {
		return []*models.Provider{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM providers
		WHERE id = ANY($1)
		  AND business_type = $2
		  AND is_available = true
		  AND is_verified = true
	`, providerColumns)

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids), businessType)
	if err != nil {
		return nil, fmt.Errorf("failed to query serviceable providers: %w", err)
	}
	defer rows.Close()

	var providers []*models.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, provider)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating providers: %w", err)
	}

	return providers, nil
}

// RecomputeRating recalculates the provider's reputation as the mean over
// all of their rated requests. A full recompute is intentionally used
// instead of an incremental update.
func (r *ProviderRepo) RecomputeRating(ctx context.Context, id uuid.UUID) (float64, int, error) {
	query := `
		UPDATE providers p
		SET rating = COALESCE(agg.avg_rating, 0),
		    total_ratings = agg.total,
		    updated_at = $2
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1)::float8 AS avg_rating,
			       COUNT(rating)::int AS total
			FROM service_requests
			WHERE assigned_provider_id = $1 AND rating >= 1
		) agg
		WHERE p.id = $1
		RETURNING p.rating, p.total_ratings
	`

	var rating float64
	var total int
	err := r.db.QueryRowContext(ctx, query, id, time.Now()).Scan(&rating, &total)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, apperrors.NotFound("provider not found")
		}
		return 0, 0, fmt.Errorf("failed to recompute rating: %w", err)
	}

	return rating, total, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*models.Provider, error) {
	var p models.Provider
	var services pq.StringArray
	var petrol, diesel, cng sql.NullFloat64
	var qrURL, qrPublicID sql.NullString

	err := row.Scan(
		&p.ID, &p.UserID, &p.BusinessName, &p.BusinessType, &services,
		&p.Address, &p.Phone, &p.Email,
		&p.Location.Longitude, &p.Location.Latitude,
		&p.IsVerified, &p.IsAvailable,
		&p.Pricing.AssistanceFee, &p.Pricing.TravelFeePerKm,
		&petrol, &diesel, &cng,
		&p.Rating, &p.TotalRatings,
		&qrURL, &qrPublicID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Services = services
	if petrol.Valid || diesel.Valid || cng.Valid {
		p.Pricing.FuelPrices = &models.FuelPrices{
			Petrol: petrol.Float64,
			Diesel: diesel.Float64,
			CNG:    cng.Float64,
		}
	}
	p.QRCodeURL = qrURL.String
	p.QRCodePublicID = qrPublicID.String

	return &p, nil
}

func requireRow(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound(notFoundMsg)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	// pgx wraps constraint violations differently; fall back to SQLSTATE text
	type sqlState interface{ SQLState() string }
	if stateErr, ok := err.(sqlState); ok {
		return stateErr.SQLState() == "23505"
	}
	return false
}
