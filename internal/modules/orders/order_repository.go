package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"motogo-backend/internal/models"
)

// RepositoryInterface defines the contract for order storage. After creation
// an order is only mutable through ConditionalUpdateStatus: status and
// driver_id are the only fields that ever change, so price, parties and
// geometry stay immutable by construction.
type RepositoryInterface interface {
	Create(ctx context.Context, customerID string, req models.CreateOrderRequest, price int) (*models.Order, error)
	FindByID(ctx context.Context, orderID int) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error)
	ListForDriver(ctx context.Context, driverID string) ([]*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
	// ConditionalUpdateStatus applies expected→next atomically. driverID is
	// bound on pending→accepted and left untouched otherwise. Returns
	// ErrConflict when the order exists but its status no longer matches
	// expected, ErrNotFound when it does not exist.
	ConditionalUpdateStatus(ctx context.Context, orderID int, expected, next models.OrderStatus, driverID *string) (*models.Order, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const orderColumns = `id, customer_id, driver_id, type, status, pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng, price, description, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, customerID string, req models.CreateOrderRequest, price int) (*models.Order, error) {
	query := `
		INSERT INTO orders (customer_id, type, status, pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng, price, description)
		VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + orderColumns

	row := r.db.QueryRow(ctx, query,
		customerID, req.Type,
		req.PickupAddress, req.PickupLat, req.PickupLng,
		req.DropoffAddress, req.DropoffLat, req.DropoffLng,
		price, req.Description,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateOrder: %w", err)
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.DriverID,
		&order.Type,
		&order.Status,
		&order.PickupAddress,
		&order.PickupLat,
		&order.PickupLng,
		&order.DropoffAddress,
		&order.DropoffLat,
		&order.DropoffLng,
		&order.Price,
		&order.Description,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &order, nil
}

func (r *Repository) FindByID(ctx context.Context, orderID int) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, customerID)
}

// ListForDriver returns the orders a driver may see: every pending order
// (to browse for acceptance) plus the driver's own active orders.
func (r *Repository) ListForDriver(ctx context.Context, driverID string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE status = 'pending' OR (driver_id = $1 AND status IN ('accepted', 'in_progress'))
		ORDER BY created_at DESC`
	return r.list(ctx, query, driverID)
}

func (r *Repository) ListAll(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.listOrders.Query: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.listOrders.Scan: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ConditionalUpdateStatus is the single mutation path after creation. The
// WHERE clause on the expected status makes the check-and-set atomic: two
// drivers racing to accept the same pending order produce exactly one
// affected row.
func (r *Repository) ConditionalUpdateStatus(ctx context.Context, orderID int, expected, next models.OrderStatus, driverID *string) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $1, driver_id = COALESCE($2, driver_id), updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRow(ctx, query, next, driverID, orderID, expected))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("repository.ConditionalUpdateStatus: %w", err)
	}

	// Zero rows: either the order is gone or someone else moved it first.
	if _, findErr := r.FindByID(ctx, orderID); findErr != nil {
		return nil, findErr
	}
	return nil, models.ErrConflict
}
