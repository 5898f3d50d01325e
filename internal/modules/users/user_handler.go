package users

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"motogo-backend/internal/models"
	"motogo-backend/pkg/utils"
)

const oauthStateCookie = "oauth_state"

// Handler handles HTTP requests for users and authentication.
type Handler struct {
	svc          ServiceInterface
	clientOrigin string
}

func NewHandler(svc ServiceInterface, clientOrigin string) *Handler {
	return &Handler{svc: svc, clientOrigin: clientOrigin}
}

func (h *Handler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	authResponse, err := h.svc.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return utils.RespondWithError(c, http.StatusConflict, "Email address is already in use")
		}
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, authResponse)
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	authResponse, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

func (h *Handler) Refresh(c echo.Context) error {
	var req models.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	authResponse, err := h.svc.Refresh(c.Request().Context(), req.SessionToken)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

func (h *Handler) Logout(c echo.Context) error {
	var req models.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := h.svc.Logout(c.Request().Context(), req.SessionToken); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GoogleLogin initiates the Google OAuth 2.0 login flow by redirecting the
// user to the consent screen. The state nonce is kept in a short-lived
// cookie and verified on callback.
func (h *Handler) GoogleLogin(c echo.Context) error {
	authURL, state, err := h.svc.HandleGoogleLogin()
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback handles the redirect back from Google.
func (h *Handler) GoogleCallback(c echo.Context) error {
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || c.QueryParam("state") != cookie.Value {
		return utils.RespondWithError(c, http.StatusUnauthorized, "Invalid state")
	}

	code := c.QueryParam("code")
	if code == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, "Authorization code not provided")
	}

	authResponse, err := h.svc.HandleGoogleCallback(c.Request().Context(), code)
	if err != nil {
		c.Logger().Error("Handler.GoogleCallback: ", err)
		return c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/login/error", h.clientOrigin))
	}

	// Hand the token to the frontend via the success redirect.
	redirectURL := fmt.Sprintf("%s/login/success?token=%s", h.clientOrigin, authResponse.AccessToken)
	return c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

func (h *Handler) GetMyProfile(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetUserProfile(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, user)
}

func (h *Handler) UpdateMyProfile(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.UserUpdateData
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.UpdateUserProfile(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, user)
}

func (h *Handler) ListUsers(c echo.Context) error {
	list, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to list users")
	}
	return utils.RespondWithJSON(c, http.StatusOK, list)
}
