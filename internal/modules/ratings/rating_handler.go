package ratings

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"motogo-backend/internal/models"
	"motogo-backend/pkg/utils"
)

// Handler handles HTTP requests for ratings.
type Handler struct {
	svc ServiceInterface
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateRating(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateRatingRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	rating, err := h.svc.CreateRating(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, rating)
}

func (h *Handler) GetRatingByOrder(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	rating, err := h.svc.GetRatingByOrder(c.Request().Context(), orderID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, rating)
}

func (h *Handler) ListDriverRatings(c echo.Context) error {
	driverID := c.Param("driverId")
	if driverID == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid driver ID")
	}

	result, err := h.svc.ListDriverRatings(c.Request().Context(), driverID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, result)
}
