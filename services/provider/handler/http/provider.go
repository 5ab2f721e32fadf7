package http

import (
	"io"
	"net/http"

	"github.com/drivemate/drivemate/internal/pkg/middleware"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/internal/utils"
	"github.com/drivemate/drivemate/services/provider"
	"github.com/labstack/echo/v4"
)

// 2 MiB is plenty for a QR code image
const maxQRImageBytes = 2 << 20

// ProviderHandler handles HTTP requests for provider operations
type ProviderHandler struct {
	providerUC provider.ProviderUC
}

// NewProviderHandler creates a new provider HTTP handler
func NewProviderHandler(providerUC provider.ProviderUC) *ProviderHandler {
	return &ProviderHandler{providerUC: providerUC}
}

// Register handles provider profile registration
func (h *ProviderHandler) Register(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.RegisterProviderRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	p, err := h.providerUC.Register(c.Request().Context(), userID, req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Provider registered successfully", p)
}

// GetProfile returns the caller's provider profile
func (h *ProviderHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	p, err := h.providerUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", p)
}

// UpdateAvailability toggles the caller's availability
func (h *ProviderHandler) UpdateAvailability(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.UpdateAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.IsAvailable == nil {
		return utils.BadRequestResponse(c, "is_available is required")
	}

	p, err := h.providerUC.SetAvailability(c.Request().Context(), userID, *req.IsAvailable)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Availability updated", p)
}

// UpdateLocation moves the caller's registered location
func (h *ProviderHandler) UpdateLocation(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.UpdateProviderLocationRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.Latitude == nil || req.Longitude == nil {
		return utils.BadRequestResponse(c, "latitude and longitude are required")
	}

	p, err := h.providerUC.UpdateLocation(c.Request().Context(), userID, *req.Latitude, *req.Longitude)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Location updated", p)
}

// UploadQRCode attaches a payment QR image to the caller's profile
func (h *ProviderHandler) UploadQRCode(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	file, err := c.FormFile("qr_code")
	if err != nil {
		return utils.BadRequestResponse(c, "qr_code file is required")
	}
	if file.Size > maxQRImageBytes {
		return utils.BadRequestResponse(c, "qr_code image is too large")
	}

	src, err := file.Open()
	if err != nil {
		return utils.BadRequestResponse(c, "unable to read qr_code file")
	}
	defer src.Close()

	image, err := io.ReadAll(io.LimitReader(src, maxQRImageBytes))
	if err != nil {
		return utils.BadRequestResponse(c, "unable to read qr_code file")
	}

	p, err := h.providerUC.AttachQRCode(c.Request().Context(), userID, image)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "QR code uploaded", p)
}
