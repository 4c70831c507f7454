package model

import "time"

// User represents a registered end user, keyed by phone number.
type User struct {
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUserRequest is the DTO for POST /api/users.
type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Email       string `json:"email" validate:"required,emailfmt,max=100"`
}

// UpdateUserRequest is the DTO for PUT /api/users/:phone.
// The phone number is the immutable key and is taken from the path.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Email string `json:"email" validate:"required,emailfmt,max=100"`
}
