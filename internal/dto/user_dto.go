package dto

import "github.com/vaishnaviugal12/CrackCode/internal/models"

// RegisterRequest represents the payload for creating an account.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=20"`
	LastName  string `json:"last_name" validate:"omitempty,min=3,max=20"`
	Email     string `json:"email" validate:"required,email"`
	Age       int    `json:"age" validate:"omitempty,gte=6,lte=80"`
	Password  string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the credential payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// UserResponse represents an account to API consumers.
type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// NewUserResponse builds a response DTO from a model.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
	}
}
