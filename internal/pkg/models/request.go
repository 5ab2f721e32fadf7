package models

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ServiceType identifies what kind of help a traveller is asking for
type ServiceType string

const (
	ServiceTypeFuel     ServiceType = "fuel"
	ServiceTypeMechanic ServiceType = "mechanic"
)

// IsValid reports whether the service type is a known value
func (s ServiceType) IsValid() bool {
	return s == ServiceTypeFuel || s == ServiceTypeMechanic
}

// BusinessType returns the provider business type that serves this service
func (s ServiceType) BusinessType() BusinessType {
	if s == ServiceTypeFuel {
		return BusinessTypeFuelStation
	}
	return BusinessTypeMechanic
}

// FuelType is the kind of fuel requested on a fuel service request
type FuelType string

const (
	FuelTypePetrol FuelType = "petrol"
	FuelTypeDiesel FuelType = "diesel"
	FuelTypeCNG    FuelType = "cng"
)

// IsValid reports whether the fuel type is a known value
func (f FuelType) IsValid() bool {
	switch f {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeCNG:
		return true
	}
	return false
}

// RequestStatus represents the lifecycle state of a service request
type RequestStatus string

const (
	RequestStatusPending        RequestStatus = "pending"
	RequestStatusAccepted       RequestStatus = "accepted"
	RequestStatusEnRoute        RequestStatus = "en_route"
	RequestStatusServiceStarted RequestStatus = "service_started"
	RequestStatusCompleted      RequestStatus = "completed"
	RequestStatusCancelled      RequestStatus = "cancelled"
)

// statusTransitions is the lifecycle transition table. Cancellation is
// reachable from every non-terminal state.
var statusTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:        {RequestStatusAccepted, RequestStatusCancelled},
	RequestStatusAccepted:       {RequestStatusEnRoute, RequestStatusServiceStarted, RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusEnRoute:        {RequestStatusServiceStarted, RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusServiceStarted: {RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusCompleted:      {},
	RequestStatusCancelled:      {},
}

// IsValid reports whether the status is part of the known enumeration
func (s RequestStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further status transitions are possible
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowsLocationUpdates reports whether provider location samples may be
// appended in this state (active service only).
func (s RequestStatus) AllowsLocationUpdates() bool {
	switch s {
	case RequestStatusAccepted, RequestStatusEnRoute, RequestStatusServiceStarted:
		return true
	}
	return false
}

// PaymentStatus tracks the financial state of a request, independent of the
// lifecycle status but gated by it.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// CostEstimate is the projected charge computed at request creation.
// ActualCost on the request may differ at settlement time.
type CostEstimate struct {
	FuelCost      float64 `json:"fuel_cost"`
	AssistanceFee float64 `json:"assistance_fee"`
	TravelFee     float64 `json:"travel_fee"`
	TotalCost     float64 `json:"total_cost"`
}

// ServiceRequest is a traveller's ask for fuel or mechanical help
type ServiceRequest struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	RequestID          string           `json:"request_id" db:"request_id"`
	UserID             uuid.UUID        `json:"user_id" db:"user_id"`
	ServiceType        ServiceType      `json:"service_type" db:"service_type"`
	FuelType           *FuelType        `json:"fuel_type,omitempty" db:"fuel_type"`
	Quantity           *int             `json:"quantity,omitempty" db:"quantity"`
	ProblemDescription string           `json:"problem_description,omitempty" db:"problem_description"`
	VehicleType        string           `json:"vehicle_type" db:"vehicle_type"`
	UserAddress        string           `json:"user_address" db:"user_address"`
	UserPhone          string           `json:"user_phone" db:"user_phone"`
	ProviderPhone      string           `json:"provider_phone,omitempty" db:"provider_phone"`
	Location           Location         `json:"location"`
	Status             RequestStatus    `json:"status" db:"status"`
	AssignedProviderID *uuid.UUID       `json:"assigned_provider_id,omitempty" db:"assigned_provider_id"`
	CostEstimate       CostEstimate     `json:"cost_estimate"`
	ActualCost         *float64         `json:"actual_cost,omitempty" db:"actual_cost"`
	PaymentStatus      PaymentStatus    `json:"payment_status" db:"payment_status"`
	LocationUpdates    []LocationUpdate `json:"provider_location_updates,omitempty"`
	Rating             *int             `json:"rating,omitempty" db:"rating"`
	Review             string           `json:"review,omitempty" db:"review"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	AcceptedAt         *time.Time       `json:"accepted_at,omitempty" db:"accepted_at"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// requestIDRandMax bounds the 5-character base36 random suffix
const requestIDRandMax = 36 * 36 * 36 * 36 * 36

// NewRequestID generates a human-readable request identifier of the form
// REQ-<base36 ms timestamp>-<base36 random>, uppercased. Collisions are
// negligible but the storage layer still enforces uniqueness.
func NewRequestID() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strconv.FormatInt(rand.Int63n(requestIDRandMax), 36)
	for len(random) < 5 {
		random = "0" + random
	}
	return strings.ToUpper(fmt.Sprintf("REQ-%s-%s", timestamp, random))
}
