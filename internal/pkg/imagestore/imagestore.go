// Package imagestore defines the opaque photo storage contract. The core
// only persists the returned URLs and public ids, never image content.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/drivemate/drivemate/internal/pkg/models"
)

// Image is a stored image reference
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store uploads and deletes images in an external object store
type Store interface {
	Upload(ctx context.Context, data []byte) (*Image, error)
	Delete(ctx context.Context, publicID string) error
}

// HTTPStore talks to an HTTP image-store service
type HTTPStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPStore creates an image store client from config
func NewHTTPStore(cfg models.ImageStoreConfig) *HTTPStore {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upload stores image bytes and returns the reference to persist
func (s *HTTPStore) Upload(ctx context.Context, data []byte) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image store returned status %d", resp.StatusCode)
	}

	var img Image
	if err := json.NewDecoder(resp.Body).Decode(&img); err != nil {
		return nil, fmt.Errorf("failed to decode image store response: %w", err)
	}
	return &img, nil
}

// Delete removes a stored image by its public id
func (s *HTTPStore) Delete(ctx context.Context, publicID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/images/"+publicID, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("image store returned status %d", resp.StatusCode)
	}
	return nil
}
