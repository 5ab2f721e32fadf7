package http

import (
	"net/http"

	"github.com/drivemate/drivemate/internal/pkg/middleware"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/drivemate/drivemate/internal/utils"
	"github.com/drivemate/drivemate/services/payment"
	"github.com/labstack/echo/v4"
)

// PaymentHandler handles HTTP requests for settlement operations
type PaymentHandler struct {
	paymentUC payment.PaymentUC
}

// NewPaymentHandler creates a new payment HTTP handler
func NewPaymentHandler(paymentUC payment.PaymentUC) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Process settles a completed request
func (h *PaymentHandler) Process(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var input models.ProcessPaymentRequest
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	p, err := h.paymentUC.ProcessPayment(c.Request().Context(), userID, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Payment processed", p)
}

// History returns the caller's settlement history
func (h *PaymentHandler) History(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	payments, err := h.paymentUC.History(c.Request().Context(), userID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", payments)
}

// Earnings summarizes the calling provider's received payments
func (h *PaymentHandler) Earnings(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	earnings, err := h.paymentUC.ProviderEarnings(c.Request().Context(), userID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "", earnings)
}

// SubmitRating rates a completed, paid request
func (h *PaymentHandler) SubmitRating(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var input models.SubmitRatingRequest
	if err := c.Bind(&input); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	req, err := h.paymentUC.SubmitRating(c.Request().Context(), userID, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Rating submitted", req)
}
