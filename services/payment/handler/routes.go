package handler

import (
	"github.com/drivemate/drivemate/services/payment"
	httpHandler "github.com/drivemate/drivemate/services/payment/handler/http"
	"github.com/labstack/echo/v4"
)

// Handler combines all handlers for the payment service
type Handler struct {
	paymentHTTP *httpHandler.PaymentHandler
}

// NewHandler creates a new combined handler
func NewHandler(paymentUC payment.PaymentUC) *Handler {
	return &Handler{
		paymentHTTP: httpHandler.NewPaymentHandler(paymentUC),
	}
}

// RegisterRoutes registers all payment HTTP routes. The group is expected
// to carry the authentication middleware.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	payments := g.Group("/payments")
	payments.POST("", h.paymentHTTP.Process)
	payments.GET("/history", h.paymentHTTP.History)
	payments.POST("/rating", h.paymentHTTP.SubmitRating)

	g.GET("/providers/me/earnings", h.paymentHTTP.Earnings)
}
