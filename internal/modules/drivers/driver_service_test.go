package drivers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"motogo-backend/internal/models"
)

type position struct{ lat, lng float64 }

type fakeDriverRepo struct {
	known     map[string]bool
	positions map[string]position
}

func newFakeDriverRepo(driverIDs ...string) *fakeDriverRepo {
	known := make(map[string]bool, len(driverIDs))
	for _, id := range driverIDs {
		known[id] = true
	}
	return &fakeDriverRepo{known: known, positions: make(map[string]position)}
}

func (r *fakeDriverRepo) UpdatePosition(_ context.Context, driverID string, lat, lng float64) error {
	if !r.known[driverID] {
		return models.ErrNotFound
	}
	r.positions[driverID] = position{lat: lat, lng: lng}
	return nil
}

func (r *fakeDriverRepo) ListOnline(_ context.Context) ([]*models.DriverSummary, error) {
	var out []*models.DriverSummary
	for id, pos := range r.positions {
		lat, lng := pos.lat, pos.lng
		out = append(out, &models.DriverSummary{ID: id, IsOnline: true, CurrentLat: &lat, CurrentLng: &lng})
	}
	return out, nil
}

func newTestDriverService(repo RepositoryInterface) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUpdateLocation(t *testing.T) {
	repo := newFakeDriverRepo("driver-1")
	svc := newTestDriverService(repo)

	err := svc.UpdateLocation(context.Background(), "driver-1", models.RoleDriver, models.LocationUpdateRequest{Lat: 18.4861, Lng: -69.9312})
	if err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	got := repo.positions["driver-1"]
	if got.lat != 18.4861 || got.lng != -69.9312 {
		t.Fatalf("unexpected stored position: %+v", got)
	}

	// A second update overwrites the first, no history is kept.
	if err := svc.UpdateLocation(context.Background(), "driver-1", models.RoleDriver, models.LocationUpdateRequest{Lat: 18.5, Lng: -69.99}); err != nil {
		t.Fatalf("second UpdateLocation: %v", err)
	}
	got = repo.positions["driver-1"]
	if got.lat != 18.5 || got.lng != -69.99 {
		t.Fatalf("expected overwritten position, got %+v", got)
	}
	if len(repo.positions) != 1 {
		t.Fatalf("expected a single stored position, got %d", len(repo.positions))
	}
}

func TestUpdateLocationRequiresDriverRole(t *testing.T) {
	svc := newTestDriverService(newFakeDriverRepo("someone"))

	err := svc.UpdateLocation(context.Background(), "someone", models.RoleCustomer, models.LocationUpdateRequest{Lat: 1, Lng: 1})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateLocationUnknownDriver(t *testing.T) {
	svc := newTestDriverService(newFakeDriverRepo())

	err := svc.UpdateLocation(context.Background(), "ghost", models.RoleDriver, models.LocationUpdateRequest{Lat: 1, Lng: 1})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOnlineDrivers(t *testing.T) {
	repo := newFakeDriverRepo("driver-1", "driver-2")
	svc := newTestDriverService(repo)

	if err := svc.UpdateLocation(context.Background(), "driver-1", models.RoleDriver, models.LocationUpdateRequest{Lat: 2, Lng: 3}); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}

	online, err := svc.ListOnlineDrivers(context.Background())
	if err != nil {
		t.Fatalf("ListOnlineDrivers: %v", err)
	}
	if len(online) != 1 || online[0].ID != "driver-1" {
		t.Fatalf("expected only driver-1 online, got %+v", online)
	}
}
