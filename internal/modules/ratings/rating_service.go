package ratings

import (
	"context"
	"fmt"
	"log/slog"

	"motogo-backend/internal/models"
	"motogo-backend/internal/observability"
)

// OrderReader is the slice of the order store this service needs: checking
// that the rated order exists, is completed, and belongs to the requester.
type OrderReader interface {
	FindByID(ctx context.Context, orderID int) (*models.Order, error)
}

// ServiceInterface defines the contract for the rating service.
type ServiceInterface interface {
	CreateRating(ctx context.Context, customerID string, req models.CreateRatingRequest) (*models.Rating, error)
	GetRatingByOrder(ctx context.Context, orderID int) (*models.Rating, error)
	ListDriverRatings(ctx context.Context, driverID string) (*models.DriverRatings, error)
}

// Service implements the rating rules: one rating per completed order,
// submitted by the order's customer.
type Service struct {
	repo   RepositoryInterface
	orders OrderReader
	logger *slog.Logger
}

func NewService(repo RepositoryInterface, orders OrderReader, logger *slog.Logger) *Service {
	return &Service{repo: repo, orders: orders, logger: logger}
}

func (s *Service) CreateRating(ctx context.Context, customerID string, req models.CreateRatingRequest) (*models.Rating, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, models.ErrForbidden
	}
	if order.Status != models.StatusCompleted {
		return nil, models.ErrOrderNotCompleted
	}
	if order.DriverID == nil {
		// Completed orders always carry a driver; guard anyway.
		return nil, models.ErrOrderNotCompleted
	}

	rating, err := s.repo.Create(ctx, order.ID, customerID, *order.DriverID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	observability.RatingsCreated.Inc()
	s.logger.Info("rating created", "order_id", order.ID, "driver_id", *order.DriverID, "rating", rating.Rating)
	return rating, nil
}

func (s *Service) GetRatingByOrder(ctx context.Context, orderID int) (*models.Rating, error) {
	return s.repo.FindByOrder(ctx, orderID)
}

// ListDriverRatings returns a driver's ratings together with their
// arithmetic mean. No rating is ever excluded since none can be deleted.
func (s *Service) ListDriverRatings(ctx context.Context, driverID string) (*models.DriverRatings, error) {
	list, err := s.repo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.ListDriverRatings: %w", err)
	}

	return &models.DriverRatings{
		DriverID:      driverID,
		AverageRating: Average(list),
		Ratings:       list,
	}, nil
}

// Average is the arithmetic mean of the rating values, 0 for no ratings.
func Average(list []*models.Rating) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	return float64(sum) / float64(len(list))
}
