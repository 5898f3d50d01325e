package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"motogo-backend/internal/api/middleware"
	"motogo-backend/internal/modules/drivers"
	"motogo-backend/internal/modules/orders"
	"motogo-backend/internal/modules/ratings"
	"motogo-backend/internal/modules/users"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	jwtSecret string,
	googleAuthEnabled bool,
	userHandler *users.Handler,
	orderHandler *orders.Handler,
	ratingHandler *ratings.Handler,
	driverHandler *drivers.Handler,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	adminRequired := middleware.AdminRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "MotoGo API"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/refresh", userHandler.Refresh)
		authGroup.POST("/logout", userHandler.Logout)
		if googleAuthEnabled {
			authGroup.GET("/google", userHandler.GoogleLogin)
			authGroup.GET("/google/callback", userHandler.GoogleCallback)
		}
	}

	// --- Profile Routes ---
	profileGroup := e.Group("/profile", authMiddleware)
	{
		profileGroup.GET("", userHandler.GetMyProfile)
		profileGroup.PUT("", userHandler.UpdateMyProfile)
	}

	// --- Order Routes ---
	orderGroup := e.Group("/orders", authMiddleware)
	{
		orderGroup.POST("/quote", orderHandler.GetQuote)
		orderGroup.POST("", orderHandler.CreateOrder)
		orderGroup.GET("", orderHandler.ListOrders)
		orderGroup.GET("/:orderId", orderHandler.GetOrderDetails)
		orderGroup.POST("/:orderId/accept", orderHandler.AcceptOrder)
		orderGroup.POST("/:orderId/status", orderHandler.UpdateOrderStatus)
		orderGroup.POST("/:orderId/cancel", orderHandler.CancelOrder)
		orderGroup.GET("/:orderId/rating", ratingHandler.GetRatingByOrder)
	}

	// --- Rating Routes ---
	e.POST("/ratings", ratingHandler.CreateRating, authMiddleware)

	// --- Driver Routes ---
	e.PUT("/driver/location", driverHandler.UpdateLocation, authMiddleware)
	e.GET("/drivers", driverHandler.ListOnlineDrivers, authMiddleware)
	e.GET("/drivers/:driverId/ratings", ratingHandler.ListDriverRatings, authMiddleware)

	// --- Admin Routes ---
	adminGroup := e.Group("/admin", authMiddleware, adminRequired)
	{
		adminGroup.GET("/orders", orderHandler.ListAllOrders)
		adminGroup.GET("/users", userHandler.ListUsers)
	}
}
