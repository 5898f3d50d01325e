package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"motogo-backend/internal/models"
)

// ExtractUserInfo pulls the authenticated principal's id and role out of the
// echo context, where the JWT middleware placed them.
func ExtractUserInfo(c echo.Context) (string, models.Role, error) {
	userID, ok := c.Get("userID").(string)
	if !ok || userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated user")
	}
	role, ok := c.Get("userRole").(models.Role)
	if !ok {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing user role")
	}
	return userID, role, nil
}
