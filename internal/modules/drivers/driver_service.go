package drivers

import (
	"context"
	"log/slog"

	"motogo-backend/internal/models"
	"motogo-backend/internal/observability"
)

// ServiceInterface defines the contract for the driver location feed.
type ServiceInterface interface {
	UpdateLocation(ctx context.Context, driverID string, role models.Role, req models.LocationUpdateRequest) error
	ListOnlineDrivers(ctx context.Context) ([]*models.DriverSummary, error)
}

// Service implements the periodic driver position feed. Position is
// best-effort telemetry, not transactional state; each update simply
// overwrites the prior one.
type Service struct {
	repo   RepositoryInterface
	logger *slog.Logger
}

func NewService(repo RepositoryInterface, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) UpdateLocation(ctx context.Context, driverID string, role models.Role, req models.LocationUpdateRequest) error {
	if role != models.RoleDriver {
		return models.ErrForbidden
	}
	if err := s.repo.UpdatePosition(ctx, driverID, req.Lat, req.Lng); err != nil {
		return err
	}
	observability.DriverLocationUpdates.Inc()
	s.logger.Debug("driver position updated", "driver_id", driverID, "lat", req.Lat, "lng", req.Lng)
	return nil
}

func (s *Service) ListOnlineDrivers(ctx context.Context) ([]*models.DriverSummary, error) {
	return s.repo.ListOnline(ctx)
}
