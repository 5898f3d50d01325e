package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// OrderType is the kind of service requested.
type OrderType string

const (
	TypeRide     OrderType = "ride"
	TypeFood     OrderType = "food"
	TypeDocument OrderType = "document"
	TypeErrand   OrderType = "errand"
)

// Order represents one requested ride/delivery/errand transaction between a
// customer and (eventually) a driver. Price is fixed at creation and never
// recomputed on status changes.
type Order struct {
	ID             int         `json:"id"`
	CustomerID     string      `json:"customer_id"`
	DriverID       *string     `json:"driver_id,omitempty"`
	Type           OrderType   `json:"type"`
	Status         OrderStatus `json:"status"`
	PickupAddress  string      `json:"pickup_address"`
	PickupLat      float64     `json:"pickup_lat"`
	PickupLng      float64     `json:"pickup_lng"`
	DropoffAddress string      `json:"dropoff_address"`
	DropoffLat     float64     `json:"dropoff_lat"`
	DropoffLng     float64     `json:"dropoff_lng"`
	Price          int         `json:"price"`
	Description    string      `json:"description,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// QuoteRequest asks for a fare quote between two points.
type QuoteRequest struct {
	PickupLat  float64 `json:"pickup_lat" validate:"min=-90,max=90"`
	PickupLng  float64 `json:"pickup_lng" validate:"min=-180,max=180"`
	DropoffLat float64 `json:"dropoff_lat" validate:"min=-90,max=90"`
	DropoffLng float64 `json:"dropoff_lng" validate:"min=-180,max=180"`
}

// CreateOrderRequest is the body for creating a new order. The server
// computes the price itself; clients never set it.
type CreateOrderRequest struct {
	Type           OrderType `json:"type" validate:"required,oneof=ride food document errand"`
	PickupAddress  string    `json:"pickup_address" validate:"required"`
	PickupLat      float64   `json:"pickup_lat" validate:"min=-90,max=90"`
	PickupLng      float64   `json:"pickup_lng" validate:"min=-180,max=180"`
	DropoffAddress string    `json:"dropoff_address" validate:"required"`
	DropoffLat     float64   `json:"dropoff_lat" validate:"min=-90,max=90"`
	DropoffLng     float64   `json:"dropoff_lng" validate:"min=-180,max=180"`
	Description    string    `json:"description,omitempty" validate:"omitempty,max=500"`
	QuoteID        string    `json:"quote_id,omitempty"`
}

// UpdateOrderStatusRequest is the body a driver sends to advance an order.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=in_progress completed"`
}
