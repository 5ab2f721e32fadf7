package http

import (
	"net/http"

	"github.com/drivemate/drivemate/internal/pkg/middleware"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/internal/utils"
	"github.com/drivemate/drivemate/services/request"
	"github.com/labstack/echo/v4"
)

// RequestHandler handles HTTP requests for service request operations
type RequestHandler struct {
	requestUC request.RequestUC
}

// NewRequestHandler creates a new service request HTTP handler
func NewRequestHandler(requestUC request.RequestUC) *RequestHandler {
	return &RequestHandler{requestUC: requestUC}
}

// Create handles service request creation
func (h *RequestHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var input models.CreateServiceRequestInput
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	resp, err := h.requestUC.CreateRequest(c.Request().Context(), userID, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Service request created", resp)
}

// Get returns a single request visible to the caller
func (h *RequestHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	req, err := h.requestUC.GetRequest(c.Request().Context(), userID, requestID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", req)
}

// ListMine returns the caller's own requests
func (h *RequestHandler) ListMine(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requests, err := h.requestUC.ListMine(c.Request().Context(), userID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", requests)
}

// Dashboard returns the provider work view
func (h *RequestHandler) Dashboard(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	dashboard, err := h.requestUC.Dashboard(c.Request().Context(), userID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", dashboard)
}

// Assign claims a pending request for the calling provider
func (h *RequestHandler) Assign(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	req, err := h.requestUC.Assign(c.Request().Context(), userID, requestID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Request assigned", req)
}

// UpdateStatus advances a request's lifecycle status
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	var input models.UpdateStatusRequest
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if input.Status == "" {
		return utils.BadRequestResponse(c, "status is required")
	}

	req, err := h.requestUC.UpdateStatus(c.Request().Context(), userID, requestID, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Status updated", req)
}

// Cancel aborts a request on behalf of its owner
func (h *RequestHandler) Cancel(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	requestID := c.Param("requestID")
	if requestID == "" {
		return utils.BadRequestResponse(c, "Request ID is required")
	}

	req, err := h.requestUC.Cancel(c.Request().Context(), userID, requestID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Request cancelled", req)
}
