package pricing

import (
	"math"

	"github.com/drivemate/drivemate/internal/pkg/models"
)

// Calculator estimates service costs against a provider's rate card. Fuel is
// priced from the reference table; deployments that trust provider-advertised
// prices can opt in to those instead, with the table filling any gaps.
type Calculator struct {
	travelDistanceKm  float64
	useProviderPrices bool
	referencePrices   models.FuelPrices
}

// NewCalculator creates a cost calculator from pricing configuration
func NewCalculator(cfg models.PricingConfig) *Calculator {
	return &Calculator{
		travelDistanceKm:  cfg.TravelDistanceKm,
		useProviderPrices: cfg.UseProviderPrices,
		referencePrices:   models.FuelPrices{Petrol: cfg.PetrolPrice, Diesel: cfg.DieselPrice, CNG: cfg.CNGPrice},
	}
}

// Estimate computes the cost breakdown for a request served by the given
// provider. A nil provider yields a zero estimate: the request stands, its
// cost is settled once a provider is found.
//
// The stored fuel cost is rounded for display, but the total is computed
// from the unrounded fuel cost so the two roundings cannot compound.
func (c *Calculator) Estimate(req *models.ServiceRequest, provider *models.Provider) models.CostEstimate {
	if provider == nil {
		return models.CostEstimate{}
	}

	var fuelCost float64
	if req.ServiceType == models.ServiceTypeFuel && req.FuelType != nil && req.Quantity != nil {
		fuelCost = c.fuelPrice(*req.FuelType, provider) * float64(*req.Quantity)
	}

	assistanceFee := provider.Pricing.AssistanceFee
	travelFee := math.Round(provider.Pricing.TravelFeePerKm * c.travelDistanceKm)

	return models.CostEstimate{
		FuelCost:      math.Round(fuelCost),
		AssistanceFee: assistanceFee,
		TravelFee:     travelFee,
		TotalCost:     math.Round(fuelCost + assistanceFee + travelFee),
	}
}

// fuelPrice resolves the per-unit price for a fuel type. The reference table
// is authoritative unless provider pricing is enabled and the provider
// advertises a price for that fuel.
func (c *Calculator) fuelPrice(fuelType models.FuelType, provider *models.Provider) float64 {
	table := c.referencePrices
	if c.useProviderPrices && provider.Pricing.FuelPrices != nil {
		table = *provider.Pricing.FuelPrices
	}

	var price float64
	switch fuelType {
	case models.FuelTypePetrol:
		price = table.Petrol
	case models.FuelTypeDiesel:
		price = table.Diesel
	case models.FuelTypeCNG:
		price = table.CNG
	}
	if price <= 0 {
		price = c.referenceFor(fuelType)
	}
	return price
}

func (c *Calculator) referenceFor(fuelType models.FuelType) float64 {
	switch fuelType {
	case models.FuelTypePetrol:
		return c.referencePrices.Petrol
	case models.FuelTypeDiesel:
		return c.referencePrices.Diesel
	case models.FuelTypeCNG:
		return c.referencePrices.CNG
	}
	return 0
}
