package handler

import (
	"github.com/drivemate/drivemate/services/provider"
	httpHandler "github.com/drivemate/drivemate/services/provider/handler/http"
	"github.com/labstack/echo/v4"
)

// Handler combines all handlers for the provider service
type Handler struct {
	providerHTTP *httpHandler.ProviderHandler
}

// NewHandler creates a new combined handler
func NewHandler(providerUC provider.ProviderUC) *Handler {
	return &Handler{
		providerHTTP: httpHandler.NewProviderHandler(providerUC),
	}
}

// RegisterRoutes registers all provider HTTP routes. The group is expected
// to carry the authentication middleware.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	providers := g.Group("/providers")
	providers.POST("", h.providerHTTP.Register)
	providers.GET("/me", h.providerHTTP.GetProfile)
	providers.PUT("/me/availability", h.providerHTTP.UpdateAvailability)
	providers.PUT("/me/location", h.providerHTTP.UpdateLocation)
	providers.PUT("/me/qr", h.providerHTTP.UploadQRCode)
}
