package api

import (
	"time"

	"github.com/pvollan/identity-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateUserRequest defines the payload for the profile update endpoint.
// Both fields are optional; empty values leave the corresponding field
// unchanged. BirthDate must be a calendar date in the 2006-01-02 layout.
type UpdateUserRequest struct {
	ID        int64  `json:"id"         validate:"required,gt=0"`
	Username  string `json:"username"   validate:"omitempty,min=1"`
	BirthDate string `json:"birth_date" validate:"omitempty"`
}

// AuthResponse defines the successful response for the register and login
// endpoints. It is the only place the opaque session token is exposed.
type AuthResponse struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	Token    string            `json:"token"`
	Status   domain.UserStatus `json:"status"`
}

// UserResponse defines the public representation of a user. It never
// carries the password or the session token.
type UserResponse struct {
	ID           int64             `json:"id"`
	Username     string            `json:"username"`
	Status       domain.UserStatus `json:"status"`
	CreationDate time.Time         `json:"creation_date"`
	BirthDate    *string           `json:"birth_date,omitempty"`
}

// NewAuthResponse converts a domain user into its owner-facing
// representation including the session token.
func NewAuthResponse(user *domain.User) AuthResponse {
	return AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    user.Token,
		Status:   user.Status,
	}
}

// NewUserResponse converts a domain user into its public representation.
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Status:       user.Status,
		CreationDate: user.CreationDate,
	}
	if user.BirthDate != nil {
		d := user.BirthDate.Format(domain.BirthDateLayout)
		resp.BirthDate = &d
	}
	return resp
}
