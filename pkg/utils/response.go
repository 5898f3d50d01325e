package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"motogo-backend/internal/models"
)

// RespondWithJSON writes a JSON response with the given status code.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// RespondWithError writes a structured error body.
func RespondWithError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Message: message})
}

// HandleServiceError maps service-layer errors onto HTTP responses.
// Validation, authorization, conflict and not-found errors carry their own
// messages; anything else is surfaced as an opaque internal error so we
// never leak internals to the client.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrOrderNotAvailable),
		errors.Is(err, models.ErrOrderNotCancellable),
		errors.Is(err, models.ErrOrderNotCompleted):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrForbidden):
		return RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrQuoteExpired):
		return RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrInvalidToken):
		return RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		c.Logger().Error(err)
		return RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
