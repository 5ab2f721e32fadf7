package pricing

import (
	"testing"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func testCalculator() *Calculator {
	return NewCalculator(models.PricingConfig{
		TravelDistanceKm: 5,
		PetrolPrice:      96.7,
		DieselPrice:      89.6,
		CNGPrice:         75.3,
	})
}

func providerPriceCalculator() *Calculator {
	return NewCalculator(models.PricingConfig{
		TravelDistanceKm:  5,
		PetrolPrice:       96.7,
		DieselPrice:       89.6,
		CNGPrice:          75.3,
		UseProviderPrices: true,
	})
}

func fuelTypePtr(f models.FuelType) *models.FuelType { return &f }
func intPtr(v int) *int                              { return &v }

func mechanicProvider() *models.Provider {
	return &models.Provider{
		BusinessType: models.BusinessTypeMechanic,
		Pricing: models.ProviderPricing{
			AssistanceFee:  100,
			TravelFeePerKm: 10,
		},
	}
}

func fuelProvider(prices *models.FuelPrices) *models.Provider {
	return &models.Provider{
		BusinessType: models.BusinessTypeFuelStation,
		Pricing: models.ProviderPricing{
			AssistanceFee:  100,
			TravelFeePerKm: 10,
			FuelPrices:     prices,
		},
	}
}

func TestEstimateMechanic(t *testing.T) {
	calc := testCalculator()
	req := &models.ServiceRequest{ServiceType: models.ServiceTypeMechanic}

	estimate := calc.Estimate(req, mechanicProvider())

	assert.Equal(t, float64(0), estimate.FuelCost)
	assert.Equal(t, float64(100), estimate.AssistanceFee)
	assert.Equal(t, float64(50), estimate.TravelFee)
	assert.Equal(t, float64(150), estimate.TotalCost)
}

func TestEstimateFuelReferencePrices(t *testing.T) {
	calc := testCalculator()
	req := &models.ServiceRequest{
		ServiceType: models.ServiceTypeFuel,
		FuelType:    fuelTypePtr(models.FuelTypePetrol),
		Quantity:    intPtr(5),
	}

	estimate := calc.Estimate(req, fuelProvider(nil))

	// 96.7 * 5 = 483.5: stored fuel cost rounds to 484, but the total is
	// computed from the exact 483.5
	assert.Equal(t, float64(484), estimate.FuelCost)
	assert.Equal(t, float64(100), estimate.AssistanceFee)
	assert.Equal(t, float64(50), estimate.TravelFee)
	assert.Equal(t, float64(634), estimate.TotalCost)
}

func TestEstimateIgnoresProviderPricesByDefault(t *testing.T) {
	calc := testCalculator()
	req := &models.ServiceRequest{
		ServiceType: models.ServiceTypeFuel,
		FuelType:    fuelTypePtr(models.FuelTypePetrol),
		Quantity:    intPtr(5),
	}

	// The station advertises a steeper petrol price, but the traveller is
	// quoted from the reference table unless provider pricing is enabled.
	estimate := calc.Estimate(req, fuelProvider(&models.FuelPrices{Petrol: 120}))

	assert.Equal(t, float64(484), estimate.FuelCost)
	assert.Equal(t, float64(634), estimate.TotalCost)
}

func TestEstimateFuelProviderPricesOptIn(t *testing.T) {
	calc := providerPriceCalculator()
	req := &models.ServiceRequest{
		ServiceType: models.ServiceTypeFuel,
		FuelType:    fuelTypePtr(models.FuelTypeDiesel),
		Quantity:    intPtr(10),
	}

	estimate := calc.Estimate(req, fuelProvider(&models.FuelPrices{Petrol: 98, Diesel: 90, CNG: 76}))

	assert.Equal(t, float64(900), estimate.FuelCost)
	assert.Equal(t, float64(1050), estimate.TotalCost)
}

func TestEstimateFallsBackOnMissingProviderPrice(t *testing.T) {
	calc := providerPriceCalculator()
	req := &models.ServiceRequest{
		ServiceType: models.ServiceTypeFuel,
		FuelType:    fuelTypePtr(models.FuelTypeCNG),
		Quantity:    intPtr(2),
	}

	// Provider sells petrol only; CNG price comes from the reference table
	estimate := calc.Estimate(req, fuelProvider(&models.FuelPrices{Petrol: 98}))

	assert.Equal(t, float64(151), estimate.FuelCost) // round(75.3 * 2)
	assert.Equal(t, float64(301), estimate.TotalCost)
}

func TestEstimateNoProvider(t *testing.T) {
	calc := testCalculator()
	req := &models.ServiceRequest{
		ServiceType: models.ServiceTypeFuel,
		FuelType:    fuelTypePtr(models.FuelTypePetrol),
		Quantity:    intPtr(5),
	}

	assert.Equal(t, models.CostEstimate{}, calc.Estimate(req, nil))
}

func TestEstimateTravelFeeRounding(t *testing.T) {
	calc := testCalculator()
	p := mechanicProvider()
	p.Pricing.TravelFeePerKm = 10.3

	estimate := calc.Estimate(&models.ServiceRequest{ServiceType: models.ServiceTypeMechanic}, p)

	assert.Equal(t, float64(52), estimate.TravelFee) // round(10.3 * 5)
	assert.Equal(t, float64(152), estimate.TotalCost)
}
