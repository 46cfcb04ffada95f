package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-manager/internal/validation"
)

// ErrorResponse is the body returned for failed requests.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// Success writes data as the raw JSON body.
func Success(c echo.Context, status int, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, data)
}

// Error sends an error response carrying a human readable detail.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Detail: message})
}

// ValidationFailed reports payload violations with 422.
func ValidationFailed(c echo.Context, err *validation.Error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Violations})
}
