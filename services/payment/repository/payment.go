package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PaymentRepo implements the payment repository over Postgres
type PaymentRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(cfg *models.Config, db *sqlx.DB) *PaymentRepo {
	return &PaymentRepo{
		cfg: cfg,
		db:  db,
	}
}

const paymentColumns = `
	id, request_id, user_id, provider_id, amount,
	payment_method, transaction_id, status, paid_at
`

// Create inserts a settlement record. The ON CONFLICT DO NOTHING against
// the request_id uniqueness makes concurrent double payments race safely:
// the loser inserts nothing and sees a conflict.
func (r *PaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	query := `
		INSERT INTO payments (
			id, request_id, user_id, provider_id, amount,
			payment_method, transaction_id, status, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (request_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.RequestID, payment.UserID, payment.ProviderID,
		payment.Amount, payment.Method, payment.TransactionID,
		payment.Status, payment.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.Conflict("payment already processed for this request")
	}

	return nil
}

// GetByRequestID retrieves the settlement record for a request
func (r *PaymentRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE request_id = $1`, paymentColumns)

	var payment models.Payment
	err := r.db.QueryRowContext(ctx, query, requestID).Scan(
		&payment.ID, &payment.RequestID, &payment.UserID, &payment.ProviderID,
		&payment.Amount, &payment.Method, &payment.TransactionID,
		&payment.Status, &payment.PaidAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("payment not found")
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// ListByUser returns an account's settlement history, newest first
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE user_id = $1
		ORDER BY paid_at DESC
	`, paymentColumns)
	return r.queryPayments(ctx, query, userID)
}

// ListByProvider returns a provider's received payments, newest first
func (r *PaymentRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE provider_id = $1
		ORDER BY paid_at DESC
	`, paymentColumns)
	return r.queryPayments(ctx, query, providerID)
}

func (r *PaymentRepo) queryPayments(ctx context.Context, query string, arg interface{}) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var payment models.Payment
		err := rows.Scan(
			&payment.ID, &payment.RequestID, &payment.UserID, &payment.ProviderID,
			&payment.Amount, &payment.Method, &payment.TransactionID,
			&payment.Status, &payment.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
