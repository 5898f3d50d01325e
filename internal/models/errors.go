package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a state transition's precondition no
	// longer holds: the order was already claimed, already left the expected
	// status, or a rating already exists for the order. Callers should
	// refresh their view of the resource before deciding to retry.
	ErrConflict = errors.New("resource state conflict")

	// ErrForbidden is returned when the actor lacks the role or identity
	// required for the requested operation.
	ErrForbidden = errors.New("operation not permitted for this user")

	// ErrOrderNotAvailable is returned when a driver tries to accept an
	// order that is no longer pending.
	ErrOrderNotAvailable = errors.New("order is not available")

	// ErrOrderNotCancellable is returned when a customer tries to cancel an
	// order that already left the pending state.
	ErrOrderNotCancellable = errors.New("can only cancel pending orders")

	// ErrOrderNotCompleted is returned when a rating is submitted for an
	// order that has not been completed yet.
	ErrOrderNotCompleted = errors.New("order is not completed")

	// ErrQuoteExpired is returned when an order references a pricing quote
	// that expired or never existed.
	ErrQuoteExpired = errors.New("the pricing quote has expired, please request a new one")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when a session token is unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}
