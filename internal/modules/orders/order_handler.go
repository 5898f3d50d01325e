package orders

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"motogo-backend/internal/models"
	"motogo-backend/pkg/utils"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetQuote(c echo.Context) error {
	var req models.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	quote, err := h.svc.Quote(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, quote)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, order)
}

func (h *Handler) ListOrders(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orders, err := h.svc.ListOrders(c.Request().Context(), userID, role)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
	}
	return utils.RespondWithJSON(c, http.StatusOK, orders)
}

func (h *Handler) GetOrderDetails(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	order, err := h.svc.GetOrder(c.Request().Context(), orderID, userID, role)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, order)
}

func (h *Handler) AcceptOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	order, err := h.svc.AcceptOrder(c.Request().Context(), orderID, userID, role)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	var req models.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	order, err := h.svc.UpdateStatus(c.Request().Context(), orderID, userID, role, req.Status)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, order)
}

func (h *Handler) CancelOrder(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	order, err := h.svc.CancelOrder(c.Request().Context(), orderID, userID, role)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, order)
}

func (h *Handler) ListAllOrders(c echo.Context) error {
	orders, err := h.svc.ListAllOrders(c.Request().Context())
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to list all orders")
	}
	return utils.RespondWithJSON(c, http.StatusOK, orders)
}
