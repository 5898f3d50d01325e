package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"motogo-backend/internal/api"
	"motogo-backend/internal/config"
	"motogo-backend/internal/logging"
	"motogo-backend/internal/modules/drivers"
	"motogo-backend/internal/modules/orders"
	"motogo-backend/internal/modules/pricing"
	"motogo-backend/internal/modules/ratings"
	"motogo-backend/internal/modules/users"
	"motogo-backend/pkg/email"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel)

	// 2. --- Echo & Middleware ---
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}
	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	logger.Info("connected to database")

	// 4. --- Redis (session store) ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Unable to ping redis: %v", err)
	}
	defer redisClient.Close()

	// 5. --- Shared Services ---
	emailer, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
	if err != nil {
		log.Fatalf("Failed to initialize SES sender: %v", err)
	}
	templates, err := email.NewTemplateManager()
	if err != nil {
		log.Fatalf("Failed to parse email templates: %v", err)
	}

	resolver, err := pricing.NewMatrixResolver(cfg.GoogleMapsAPIKey, logger)
	if err != nil {
		log.Fatalf("Failed to initialize distance resolver: %v", err)
	}
	engine := pricing.NewEngine(cfg.Pricing)

	var googleOAuth *oauth2.Config
	if cfg.AuthProvider == "google" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		}
	}

	// 6. --- Dependency Injection (Wiring everything up) ---
	sessionStore := users.NewRedisSessionStore(redisClient, cfg.SessionTTL)

	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, sessionStore, emailer, templates, logger, cfg.JWTSecret, cfg.AccessTokenTTL, googleOAuth)
	userHandler := users.NewHandler(userService, cfg.ClientOrigin)

	orderRepo := orders.NewRepository(dbPool)
	orderService := orders.NewService(orderRepo, userRepo, resolver, engine, emailer, templates, logger, cfg.Pricing.QuoteCacheTTL)
	orderHandler := orders.NewHandler(orderService)

	ratingRepo := ratings.NewRepository(dbPool)
	ratingService := ratings.NewService(ratingRepo, orderRepo, logger)
	ratingHandler := ratings.NewHandler(ratingService)

	driverRepo := drivers.NewRepository(dbPool)
	driverService := drivers.NewService(driverRepo, logger)
	driverHandler := drivers.NewHandler(driverService)

	// 7. --- Routes ---
	api.SetupRoutes(e, cfg.JWTSecret, googleOAuth != nil,
		userHandler,
		orderHandler,
		ratingHandler,
		driverHandler,
	)

	// 8. --- Start Server with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server, an error occurred: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown: ", err)
	}
	log.Println("Server exiting")
}
