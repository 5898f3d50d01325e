package models

import "time"

// Role controls what a user is allowed to do.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

// User struct, mirrors the users table. Drivers additionally carry their
// latest reported position and online flag.
type User struct {
	ID              string    `json:"id" db:"id"` // UUID string from DB
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	FirstName       string    `json:"first_name,omitempty" db:"first_name"`
	LastName        string    `json:"last_name,omitempty" db:"last_name"`
	Phone           string    `json:"phone,omitempty" db:"phone"`
	Role            Role      `json:"role" db:"role"`
	AuthProvider    string    `json:"auth_provider" db:"auth_provider"`
	AuthProviderID  string    `json:"-" db:"auth_provider_id"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" db:"profile_image_url"`
	IsOnline        bool      `json:"is_online" db:"is_online"`
	CurrentLat      *float64  `json:"current_lat,omitempty" db:"current_lat"`
	CurrentLng      *float64  `json:"current_lng,omitempty" db:"current_lng"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Role      Role   `json:"role" validate:"required,oneof=customer driver"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
}

type LogoutRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
}

// AuthResponse carries the short-lived access token plus the opaque session
// token used for refresh and logout.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token,omitempty"`
	User         *User  `json:"user"`
}

// UserUpdateData defines fields that can be updated for a user profile.
type UserUpdateData struct {
	FirstName       *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName        *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" validate:"omitempty,url"`
}

// LocationUpdateRequest is the body of a driver position report.
type LocationUpdateRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// DriverSummary is the public view of a driver used by the customer map.
type DriverSummary struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name,omitempty"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`
	IsOnline        bool     `json:"is_online"`
	CurrentLat      *float64 `json:"current_lat,omitempty"`
	CurrentLng      *float64 `json:"current_lng,omitempty"`
	AverageRating   float64  `json:"average_rating"`
	RatingCount     int      `json:"rating_count"`
}
