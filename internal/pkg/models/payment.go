package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is how a traveller settles a completed request
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodQR   PaymentMethod = "qr"
)

// IsValid reports whether the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodQR
}

// RequiresTransactionID reports whether an externally supplied transaction
// identifier is mandatory. Cash payments synthesize one from the request id.
func (m PaymentMethod) RequiresTransactionID() bool {
	return m != PaymentMethodCash
}

// Payment is the settlement record for a completed service request.
// At most one payment exists per request, enforced by a uniqueness
// constraint on request_id.
type Payment struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	RequestID     string        `json:"request_id" db:"request_id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	ProviderID    uuid.UUID     `json:"provider_id" db:"provider_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Method        PaymentMethod `json:"payment_method" db:"payment_method"`
	TransactionID string        `json:"transaction_id" db:"transaction_id"`
	Status        string        `json:"status" db:"status"`
	PaidAt        time.Time     `json:"paid_at" db:"paid_at"`
}

// ProviderEarnings summarizes a provider's settled payments
type ProviderEarnings struct {
	Total        float64   `json:"total"`
	PaymentCount int       `json:"payment_count"`
	Payments     []Payment `json:"payments"`
}
