package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind identifies the template a notification renders with
type NotificationKind string

const (
	NotificationRequestCreated  NotificationKind = "request_created"
	NotificationRequestAccepted NotificationKind = "request_accepted"
	NotificationStatusChanged   NotificationKind = "status_changed"
	NotificationPaymentReceipt  NotificationKind = "payment_receipt"
	NotificationRatingReceived  NotificationKind = "rating_received"
)

// Notification is the fire-and-forget payload published for downstream
// delivery (SMS, email, push). Delivery is never awaited for correctness.
type Notification struct {
	AccountID uuid.UUID              `json:"account_id"`
	Kind      NotificationKind       `json:"kind"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
