package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BusinessType identifies what kind of roadside assistance a provider offers
type BusinessType string

const (
	BusinessTypeFuelStation BusinessType = "fuel-station"
	BusinessTypeMechanic    BusinessType = "mechanic"
)

// IsValid reports whether the business type is a known value
func (b BusinessType) IsValid() bool {
	switch b {
	case BusinessTypeFuelStation, BusinessTypeMechanic:
		return true
	}
	return false
}

// ServiceType returns the service type this business serves
func (b BusinessType) ServiceType() ServiceType {
	if b == BusinessTypeFuelStation {
		return ServiceTypeFuel
	}
	return ServiceTypeMechanic
}

// FuelPrices is a fuel station's advertised per-unit prices
type FuelPrices struct {
	Petrol float64 `json:"petrol" db:"petrol_price"`
	Diesel float64 `json:"diesel" db:"diesel_price"`
	CNG    float64 `json:"cng" db:"cng_price"`
}

// ProviderPricing holds a provider's fee structure. FuelPrices is only set
// for fuel stations.
type ProviderPricing struct {
	AssistanceFee  float64     `json:"assistance_fee" db:"assistance_fee"`
	TravelFeePerKm float64     `json:"travel_fee_per_km" db:"travel_fee_per_km"`
	FuelPrices     *FuelPrices `json:"fuel_prices,omitempty"`
}

// Provider represents a registered fuel station or mechanic business.
// Rating and TotalRatings are derived from rated requests and recomputed
// after each rating submission, never edited directly.
type Provider struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	BusinessName   string          `json:"business_name" db:"business_name"`
	BusinessType   BusinessType    `json:"business_type" db:"business_type"`
	Services       []string        `json:"services,omitempty"`
	Address        string          `json:"address" db:"address"`
	Phone          string          `json:"phone" db:"phone"`
	Email          string          `json:"email" db:"email"`
	Location       Location        `json:"location"`
	IsVerified     bool            `json:"is_verified" db:"is_verified"`
	IsAvailable    bool            `json:"is_available" db:"is_available"`
	Pricing        ProviderPricing `json:"pricing"`
	Rating         float64         `json:"rating" db:"rating"`
	TotalRatings   int             `json:"total_ratings" db:"total_ratings"`
	QRCodeURL      string          `json:"qr_code_url,omitempty" db:"qr_code_url"`
	QRCodePublicID string          `json:"-" db:"qr_code_public_id"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// ValidateCapabilities checks the type-specific payload: mechanics must list
// at least one service, fuel stations must carry a price table.
func (p *Provider) ValidateCapabilities() error {
	switch p.BusinessType {
	case BusinessTypeMechanic:
		if len(p.Services) == 0 {
			return fmt.Errorf("mechanic must offer at least one service")
		}
		return nil
	case BusinessTypeFuelStation:
		if p.Pricing.FuelPrices == nil {
			return fmt.Errorf("fuel station must provide a fuel price table")
		}
		return nil
	default:
		return fmt.Errorf("unknown business type: %s", p.BusinessType)
	}
}

// NearbyProvider is a provider candidate returned by a proximity search,
// with the great-circle distance from the query origin attached for display.
type NearbyProvider struct {
	Provider   `json:"provider"`
	DistanceKm float64 `json:"distance_km"`
}
