package models

// RegisterProviderRequest is the provider registration payload. Latitude and
// longitude are pointers so absence can be told apart from zero.
type RegisterProviderRequest struct {
	BusinessName   string       `json:"business_name"`
	BusinessType   BusinessType `json:"business_type"`
	Services       []string     `json:"services,omitempty"`
	Address        string       `json:"address"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	AssistanceFee  float64      `json:"assistance_fee"`
	TravelFeePerKm float64      `json:"travel_fee_per_km"`
	PetrolPrice    float64      `json:"petrol_price,omitempty"`
	DieselPrice    float64      `json:"diesel_price,omitempty"`
	CNGPrice       float64      `json:"cng_price,omitempty"`
	Latitude       *float64     `json:"latitude"`
	Longitude      *float64     `json:"longitude"`
}

// UpdateAvailabilityRequest toggles a provider's availability flag
type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

// UpdateProviderLocationRequest moves a provider's registered location
type UpdateProviderLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateServiceRequestInput is the request-creation payload
type CreateServiceRequestInput struct {
	ServiceType        ServiceType `json:"service_type"`
	FuelType           *FuelType   `json:"fuel_type,omitempty"`
	Quantity           *int        `json:"quantity,omitempty"`
	ProblemDescription string      `json:"problem_description,omitempty"`
	VehicleType        string      `json:"vehicle_type,omitempty"`
	UserAddress        string      `json:"user_address,omitempty"`
	UserPhone          string      `json:"user_phone"`
	Latitude           *float64    `json:"latitude"`
	Longitude          *float64    `json:"longitude"`
}

// CreateServiceRequestResponse returns the persisted request, the full
// candidate list for the selection UI, and the estimate (priced against the
// nearest candidate only).
type CreateServiceRequestResponse struct {
	Request          *ServiceRequest  `json:"request"`
	NearestProviders []NearbyProvider `json:"nearest_providers"`
	CostEstimate     CostEstimate     `json:"cost_estimate"`
}

// UpdateStatusRequest advances a request's lifecycle status, optionally
// carrying the provider's current position.
type UpdateStatusRequest struct {
	Status     string   `json:"status"`
	CurrentLat *float64 `json:"current_lat,omitempty"`
	CurrentLng *float64 `json:"current_lng,omitempty"`
}

// ProviderDashboard is the provider's work view: claimable pending requests
// of their service type plus their own active assignments.
type ProviderDashboard struct {
	Provider        *Provider         `json:"provider"`
	PendingRequests []*ServiceRequest `json:"pending_requests"`
	ActiveRequests  []*ServiceRequest `json:"active_requests"`
}

// ProcessPaymentRequest settles a completed service request
type ProcessPaymentRequest struct {
	RequestID     string        `json:"request_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Amount        float64       `json:"amount"`
	TransactionID string        `json:"transaction_id,omitempty"`
}

// SubmitRatingRequest rates a completed, paid service request
type SubmitRatingRequest struct {
	RequestID string `json:"request_id"`
	Rating    int    `json:"rating"`
	Review    string `json:"review,omitempty"`
}
