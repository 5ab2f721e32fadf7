// Package geocode wraps the external reverse-geocoding service. Lookups are
// best-effort: any failure falls back to a deterministic coordinate-based
// address instead of failing the caller.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/logger"
	"github.com/drivemate/drivemate/internal/pkg/models"
)

// Client is a reverse-geocoding client backed by a Nominatim-compatible API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a reverse-geocoding client from config
func NewClient(cfg models.GeocodeConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode resolves coordinates to a human-readable address. It never
// returns an error: on any upstream failure the fallback address
// "Near <lat>, <lon>" is returned instead.
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) string {
	address, err := c.lookup(ctx, latitude, longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed, using fallback address",
			logger.Float64("latitude", latitude),
			logger.Float64("longitude", longitude),
			logger.Err(err))
		return FallbackAddress(latitude, longitude)
	}
	return address
}

func (c *Client) lookup(ctx context.Context, latitude, longitude float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?%s", c.baseURL, url.Values{
		"format":         {"json"},
		"lat":            {fmt.Sprintf("%f", latitude)},
		"lon":            {fmt.Sprintf("%f", longitude)},
		"zoom":           {"18"},
		"addressdetails": {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if parsed.DisplayName == "" {
		return "", fmt.Errorf("no address found for coordinates")
	}

	return parsed.DisplayName, nil
}

// FallbackAddress is the deterministic address used when reverse geocoding
// is unavailable.
func FallbackAddress(latitude, longitude float64) string {
	return fmt.Sprintf("Near %.6f, %.6f", latitude, longitude)
}
