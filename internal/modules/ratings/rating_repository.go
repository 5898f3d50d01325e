package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"motogo-backend/internal/models"
)

// RepositoryInterface defines the contract for rating storage.
type RepositoryInterface interface {
	Create(ctx context.Context, orderID int, customerID, driverID string, rating int, comment string) (*models.Rating, error)
	FindByOrder(ctx context.Context, orderID int) (*models.Rating, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.Rating, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const ratingColumns = `id, order_id, customer_id, driver_id, rating, comment, created_at`

// Create inserts a rating. The unique index on order_id makes "at most one
// rating per order" a storage invariant; a duplicate insert surfaces as
// ErrConflict and the first rating wins.
func (r *Repository) Create(ctx context.Context, orderID int, customerID, driverID string, rating int, comment string) (*models.Rating, error) {
	query := `
		INSERT INTO ratings (order_id, customer_id, driver_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ratingColumns

	row := r.db.QueryRow(ctx, query, orderID, customerID, driverID, rating, comment)
	created, err := scanRating(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateRating: %w", err)
	}
	return created, nil
}

func scanRating(row pgx.Row) (*models.Rating, error) {
	var rating models.Rating
	err := row.Scan(
		&rating.ID,
		&rating.OrderID,
		&rating.CustomerID,
		&rating.DriverID,
		&rating.Rating,
		&rating.Comment,
		&rating.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *Repository) FindByOrder(ctx context.Context, orderID int) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE order_id = $1`
	rating, err := scanRating(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByOrder: %w", err)
	}
	return rating, nil
}

func (r *Repository) ListByDriver(ctx context.Context, driverID string) ([]*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE driver_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByDriver.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.Rating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByDriver.Scan: %w", err)
		}
		result = append(result, rating)
	}
	return result, rows.Err()
}
