package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"googlemaps.github.io/maps"

	"motogo-backend/internal/observability"
)

// DistanceResolver produces a road-or-straight-line distance estimate in km
// between two coordinates. Implementations never fail: pricing must always
// be computable even when the road-distance provider is unreachable.
type DistanceResolver interface {
	DistanceKm(ctx context.Context, pickupLat, pickupLng, dropoffLat, dropoffLng float64) float64
}

// MatrixResolver asks the Google Maps Distance Matrix API for the road
// distance and falls back to the great-circle distance on any failure.
type MatrixResolver struct {
	client *maps.Client
	logger *slog.Logger
}

// NewMatrixResolver builds a resolver backed by the Distance Matrix API.
// With an empty API key it resolves every lookup via haversine.
func NewMatrixResolver(apiKey string, logger *slog.Logger) (*MatrixResolver, error) {
	if apiKey == "" {
		logger.Warn("google maps api key not configured, all distances use haversine")
		return &MatrixResolver{logger: logger}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("pricing: create maps client: %w", err)
	}
	return &MatrixResolver{client: client, logger: logger}, nil
}

func (r *MatrixResolver) DistanceKm(ctx context.Context, pickupLat, pickupLng, dropoffLat, dropoffLng float64) float64 {
	if r.client != nil {
		km, err := r.roadDistanceKm(ctx, pickupLat, pickupLng, dropoffLat, dropoffLng)
		if err == nil {
			return km
		}
		observability.DistanceFallbacks.Inc()
		r.logger.Warn("road distance lookup failed, falling back to haversine", "error", err)
	}
	return Haversine(pickupLat, pickupLng, dropoffLat, dropoffLng)
}

func (r *MatrixResolver) roadDistanceKm(ctx context.Context, lat1, lng1, lat2, lng2 float64) (float64, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", lat1, lng1)},
		Destinations: []string{fmt.Sprintf("%f,%f", lat2, lng2)},
		Units:        maps.UnitsMetric,
	}
	resp, err := r.client.DistanceMatrix(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("distance matrix returned no elements")
	}
	elem := resp.Rows[0].Elements[0]
	if elem.Status != "OK" {
		return 0, fmt.Errorf("distance matrix element status %s", elem.Status)
	}
	km := float64(elem.Distance.Meters) / 1000
	return math.Round(km*100) / 100, nil
}

// Haversine is the great-circle distance in km between two lat/lng points,
// rounded to 2 decimal places. Earth radius 6371 km.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371.0
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(R*c*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
