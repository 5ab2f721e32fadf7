package utils

import (
	"net/http"

	"github.com/drivemate/drivemate/internal/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse sends a success response with data
func SuccessResponse(c echo.Context, statusCode int, message string, data interface{}) error {
	return c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseHandler sends an error response
func ErrorResponseHandler(c echo.Context, statusCode int, errorMessage string) error {
	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   errorMessage,
		Code:    statusCode,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, errorMessage string) error {
	return ErrorResponseHandler(c, http.StatusBadRequest, errorMessage)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Unauthorized"
	}
	return ErrorResponseHandler(c, http.StatusUnauthorized, errorMessage)
}

// AppErrorResponse maps a classified application error to its HTTP status.
// Unclassified errors surface as 500s.
func AppErrorResponse(c echo.Context, err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return ErrorResponseHandler(c, http.StatusBadRequest, err.Error())
	case apperrors.KindNotFound:
		return ErrorResponseHandler(c, http.StatusNotFound, err.Error())
	case apperrors.KindForbidden:
		return ErrorResponseHandler(c, http.StatusForbidden, err.Error())
	case apperrors.KindConflict:
		return ErrorResponseHandler(c, http.StatusConflict, err.Error())
	case apperrors.KindUpstream:
		return ErrorResponseHandler(c, http.StatusServiceUnavailable, err.Error())
	default:
		return ErrorResponseHandler(c, http.StatusInternalServerError, err.Error())
	}
}
