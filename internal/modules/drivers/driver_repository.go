package drivers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"motogo-backend/internal/models"
)

// RepositoryInterface defines the contract for driver position storage.
// Positions have no history: each update overwrites the previous one.
type RepositoryInterface interface {
	UpdatePosition(ctx context.Context, driverID string, lat, lng float64) error
	ListOnline(ctx context.Context) ([]*models.DriverSummary, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// UpdatePosition stores the driver's latest reported coordinates and marks
// them online.
func (r *Repository) UpdatePosition(ctx context.Context, driverID string, lat, lng float64) error {
	query := `
		UPDATE users
		SET current_lat = $1, current_lng = $2, is_online = TRUE, updated_at = NOW()
		WHERE id = $3 AND role = 'driver'`

	cmdTag, err := r.db.Exec(ctx, query, lat, lng, driverID)
	if err != nil {
		return fmt.Errorf("repository.UpdatePosition: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListOnline returns every online driver with their latest position and
// rating summary.
func (r *Repository) ListOnline(ctx context.Context) ([]*models.DriverSummary, error) {
	query := `
		SELECT u.id, u.first_name, u.profile_image_url, u.is_online, u.current_lat, u.current_lng,
			COALESCE(AVG(rt.rating), 0), COUNT(rt.id)
		FROM users u
		LEFT JOIN ratings rt ON rt.driver_id = u.id
		WHERE u.role = 'driver' AND u.is_online
		GROUP BY u.id
		ORDER BY u.first_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListOnline.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.DriverSummary
	for rows.Next() {
		var d models.DriverSummary
		err := rows.Scan(&d.ID, &d.FirstName, &d.ProfileImageURL, &d.IsOnline,
			&d.CurrentLat, &d.CurrentLng, &d.AverageRating, &d.RatingCount)
		if err != nil {
			return nil, fmt.Errorf("repository.ListOnline.Scan: %w", err)
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}
