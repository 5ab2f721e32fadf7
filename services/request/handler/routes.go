package handler

import (
	"github.com/drivemate/drivemate/services/request"
	httpHandler "github.com/drivemate/drivemate/services/request/handler/http"
	"github.com/labstack/echo/v4"
)

// Handler combines all handlers for the request service
type Handler struct {
	requestHTTP *httpHandler.RequestHandler
}

// NewHandler creates a new combined handler
func NewHandler(requestUC request.RequestUC) *Handler {
	return &Handler{
		requestHTTP: httpHandler.NewRequestHandler(requestUC),
	}
}

// RegisterRoutes registers all request HTTP routes. The group is expected to
// carry the authentication middleware.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	requests := g.Group("/requests")
	requests.POST("", h.requestHTTP.Create)
	requests.GET("/mine", h.requestHTTP.ListMine)
	requests.GET("/dashboard", h.requestHTTP.Dashboard)
	requests.GET("/:requestID", h.requestHTTP.Get)
	requests.POST("/:requestID/assign", h.requestHTTP.Assign)
	requests.PUT("/:requestID/status", h.requestHTTP.UpdateStatus)
	requests.PUT("/:requestID/cancel", h.requestHTTP.Cancel)
}
