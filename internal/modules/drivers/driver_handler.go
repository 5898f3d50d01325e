package drivers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"motogo-backend/internal/models"
	"motogo-backend/pkg/utils"
)

// Handler handles HTTP requests for the driver location feed.
type Handler struct {
	svc ServiceInterface
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) UpdateLocation(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.LocationUpdateRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.svc.UpdateLocation(c.Request().Context(), userID, role, req); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListOnlineDrivers(c echo.Context) error {
	result, err := h.svc.ListOnlineDrivers(c.Request().Context())
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to list drivers")
	}
	return utils.RespondWithJSON(c, http.StatusOK, result)
}
