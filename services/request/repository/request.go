package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RequestRepo implements the service request repository over Postgres
type RequestRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewRequestRepository creates a new service request repository
func NewRequestRepository(cfg *models.Config, db *sqlx.DB) *RequestRepo {
	return &RequestRepo{
		cfg: cfg,
		db:  db,
	}
}

const requestColumns = `
	id, request_id, user_id, service_type, fuel_type, quantity,
	problem_description, vehicle_type, user_address, user_phone, provider_phone,
	(location[0])::float8 as longitude,
	(location[1])::float8 as latitude,
	status, assigned_provider_id,
	fuel_cost, assistance_fee, travel_fee, total_cost, actual_cost,
	payment_status, location_updates, rating, review,
	created_at, accepted_at, completed_at, cancelled_at
`

// Create inserts a new service request in the pending state
func (r *RequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()

	query := `
		INSERT INTO service_requests (
			id, request_id, user_id, service_type, fuel_type, quantity,
			problem_description, vehicle_type, user_address, user_phone,
			location, status,
			fuel_cost, assistance_fee, travel_fee, total_cost,
			payment_status, location_updates, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			point($11, $12), $13, $14, $15, $16, $17, $18, '[]'::jsonb, $19
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.RequestID, req.UserID, req.ServiceType,
		nullableFuelType(req.FuelType), nullableInt(req.Quantity),
		req.ProblemDescription, req.VehicleType, req.UserAddress, req.UserPhone,
		req.Location.Longitude, req.Location.Latitude,
		req.Status,
		req.CostEstimate.FuelCost, req.CostEstimate.AssistanceFee,
		req.CostEstimate.TravelFee, req.CostEstimate.TotalCost,
		req.PaymentStatus,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert service request: %w", err)
	}

	return nil
}

// UpdateEstimate stores a recomputed cost breakdown
func (r *RequestRepo) UpdateEstimate(ctx context.Context, id uuid.UUID, estimate models.CostEstimate) error {
	query := `
		UPDATE service_requests
		SET fuel_cost = $2, assistance_fee = $3, travel_fee = $4, total_cost = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		id, estimate.FuelCost, estimate.AssistanceFee, estimate.TravelFee, estimate.TotalCost)
	if err != nil {
		return fmt.Errorf("failed to update cost estimate: %w", err)
	}
	return requireRow(result, "service request not found")
}

// GetByRequestID retrieves a request by its public identifier
func (r *RequestRepo) GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_requests WHERE request_id = $1`, requestColumns)
	row := r.db.QueryRowContext(ctx, query, requestID)
	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("service request not found")
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	return req, nil
}

// ListByUser returns all requests created by an account, newest first
func (r *RequestRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ServiceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM service_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, requestColumns)
	return r.queryRequests(ctx, query, userID)
}

// ListPendingByServiceType returns the newest unclaimed requests of a
// service type, capped at limit.
func (r *RequestRepo) ListPendingByServiceType(ctx context.Context, serviceType models.ServiceType, limit int) ([]*models.ServiceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM service_requests
		WHERE service_type = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT $2
	`, requestColumns)
	return r.queryRequests(ctx, query, serviceType, limit)
}

// ListActiveByProvider returns a provider's in-flight assignments
func (r *RequestRepo) ListActiveByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.ServiceRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM service_requests
		WHERE assigned_provider_id = $1
		  AND status IN ('accepted', 'en_route', 'service_started')
		ORDER BY accepted_at ASC
	`, requestColumns)
	return r.queryRequests(ctx, query, providerID)
}

// Claim atomically assigns a pending request. The status guard in the WHERE
// clause makes concurrent claims race safely: exactly one provider wins,
// the rest see a conflict.
func (r *RequestRepo) Claim(ctx context.Context, requestID string, providerID uuid.UUID, providerPhone string) (*models.ServiceRequest, error) {
	query := fmt.Sprintf(`
		UPDATE service_requests
		SET status = 'accepted', assigned_provider_id = $2, provider_phone = $3, accepted_at = $4
		WHERE request_id = $1 AND status = 'pending'
		RETURNING %s
	`, requestColumns)

	row := r.db.QueryRowContext(ctx, query, requestID, providerID, providerPhone, time.Now())
	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.Conflict("request not found or already assigned")
		}
		return nil, fmt.Errorf("failed to claim service request: %w", err)
	}
	return req, nil
}

// UpdateStatus advances the lifecycle with a compare-and-set on the current
// status and the provider assignment.
func (r *RequestRepo) UpdateStatus(ctx context.Context, requestID string, providerID uuid.UUID, from, to models.RequestStatus) (*models.ServiceRequest, error) {
	query := fmt.Sprintf(`
		UPDATE service_requests
		SET status = $4,
		    completed_at = CASE WHEN $4 = 'completed' THEN now() ELSE completed_at END
		WHERE request_id = $1 AND assigned_provider_id = $2 AND status = $3
		RETURNING %s
	`, requestColumns)

	row := r.db.QueryRowContext(ctx, query, requestID, providerID, from, to)
	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.Conflict("request status changed concurrently")
		}
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	return req, nil
}

// AppendLocationUpdate appends a tracking point to the request's location
// trail. Only active requests accept tracking points.
func (r *RequestRepo) AppendLocationUpdate(ctx context.Context, requestID string, update models.LocationUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode location update: %w", err)
	}

	query := `
		UPDATE service_requests
		SET location_updates = location_updates || $2::jsonb
		WHERE request_id = $1
		  AND status IN ('accepted', 'en_route', 'service_started')
	`
	result, err := r.db.ExecContext(ctx, query, requestID, payload)
	if err != nil {
		return fmt.Errorf("failed to append location update: %w", err)
	}
	return requireRow(result, "request is not accepting location updates")
}

// Cancel aborts a request. Only the owner may cancel, and only before a
// terminal state is reached.
func (r *RequestRepo) Cancel(ctx context.Context, requestID string, userID uuid.UUID) (*models.ServiceRequest, error) {
	query := fmt.Sprintf(`
		UPDATE service_requests
		SET status = 'cancelled', cancelled_at = now()
		WHERE request_id = $1 AND user_id = $2
		  AND status NOT IN ('completed', 'cancelled')
		RETURNING %s
	`, requestColumns)

	row := r.db.QueryRowContext(ctx, query, requestID, userID)
	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.Conflict("request cannot be cancelled")
		}
		return nil, fmt.Errorf("failed to cancel service request: %w", err)
	}
	return req, nil
}

// SetPaid marks the request settled and records the charged amount
func (r *RequestRepo) SetPaid(ctx context.Context, requestID string, actualCost float64) error {
	query := `
		UPDATE service_requests
		SET payment_status = 'paid', actual_cost = $2
		WHERE request_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, requestID, actualCost)
	if err != nil {
		return fmt.Errorf("failed to mark request paid: %w", err)
	}
	return requireRow(result, "service request not found")
}

// SetRating records a one-time rating on a completed, paid request owned by
// the caller. The guards live in the WHERE clause so a double submission
// loses the race instead of overwriting.
func (r *RequestRepo) SetRating(ctx context.Context, requestID string, userID uuid.UUID, rating int, review string) (*models.ServiceRequest, error) {
	query := fmt.Sprintf(`
		UPDATE service_requests
		SET rating = $3, review = $4
		WHERE request_id = $1 AND user_id = $2
		  AND rating IS NULL
		  AND status = 'completed'
		  AND payment_status = 'paid'
		RETURNING %s
	`, requestColumns)

	row := r.db.QueryRowContext(ctx, query, requestID, userID, rating, review)
	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.Conflict("request is not ratable")
		}
		return nil, fmt.Errorf("failed to set rating: %w", err)
	}
	return req, nil
}

func (r *RequestRepo) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ServiceRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query service requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ServiceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate service requests: %w", err)
	}
	return requests, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*models.ServiceRequest, error) {
	var (
		req             models.ServiceRequest
		fuelType        sql.NullString
		quantity        sql.NullInt64
		providerPhone   sql.NullString
		assignedTo      sql.NullString
		actualCost      sql.NullFloat64
		locationUpdates []byte
		rating          sql.NullInt64
		review          sql.NullString
		acceptedAt      sql.NullTime
		completedAt     sql.NullTime
		cancelledAt     sql.NullTime
	)

	err := row.Scan(
		&req.ID, &req.RequestID, &req.UserID, &req.ServiceType, &fuelType, &quantity,
		&req.ProblemDescription, &req.VehicleType, &req.UserAddress, &req.UserPhone, &providerPhone,
		&req.Location.Longitude, &req.Location.Latitude,
		&req.Status, &assignedTo,
		&req.CostEstimate.FuelCost, &req.CostEstimate.AssistanceFee,
		&req.CostEstimate.TravelFee, &req.CostEstimate.TotalCost, &actualCost,
		&req.PaymentStatus, &locationUpdates, &rating, &review,
		&req.CreatedAt, &acceptedAt, &completedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if fuelType.Valid {
		ft := models.FuelType(fuelType.String)
		req.FuelType = &ft
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		req.Quantity = &q
	}
	if providerPhone.Valid {
		req.ProviderPhone = providerPhone.String
	}
	if assignedTo.Valid {
		id, err := uuid.Parse(assignedTo.String)
		if err != nil {
			return nil, fmt.Errorf("invalid assigned provider id: %w", err)
		}
		req.AssignedProviderID = &id
	}
	if actualCost.Valid {
		req.ActualCost = &actualCost.Float64
	}
	if len(locationUpdates) > 0 {
		if err := json.Unmarshal(locationUpdates, &req.LocationUpdates); err != nil {
			return nil, fmt.Errorf("invalid location update trail: %w", err)
		}
	}
	if rating.Valid {
		v := int(rating.Int64)
		req.Rating = &v
	}
	if review.Valid {
		req.Review = review.String
	}
	if acceptedAt.Valid {
		req.AcceptedAt = &acceptedAt.Time
	}
	if completedAt.Valid {
		req.CompletedAt = &completedAt.Time
	}
	if cancelledAt.Valid {
		req.CancelledAt = &cancelledAt.Time
	}

	return &req, nil
}

func nullableFuelType(f *models.FuelType) interface{} {
	if f == nil {
		return nil
	}
	return string(*f)
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func requireRow(result sql.Result, notFoundMsg string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.Conflict(notFoundMsg)
	}
	return nil
}
