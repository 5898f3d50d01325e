package models

import "time"

// Rating is a customer's one-time score of a completed order. At most one
// rating exists per order; ratings are never updated or deleted.
type Rating struct {
	ID         int       `json:"id"`
	OrderID    int       `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	DriverID   string    `json:"driver_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateRatingRequest is the body for submitting a rating.
type CreateRatingRequest struct {
	OrderID int    `json:"order_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// DriverRatings bundles a driver's ratings with their arithmetic mean.
type DriverRatings struct {
	DriverID      string    `json:"driver_id"`
	AverageRating float64   `json:"average_rating"`
	Ratings       []*Rating `json:"ratings"`
}
