// Package dto contains Data Transfer Objects for API request and response structures
package dto

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255" example:"Jane Field"`
	Email    string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password string `json:"password" validate:"required,min=6,max=100" example:"secret123"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user manager admin superadmin" example:"user"`
}

// RegisterResponse represents the successful registration response
type RegisterResponse struct {
	User UserDTO `json:"user"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password string `json:"password" validate:"required,min=1,max=100" example:"secret123"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	AccessToken  string  `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string  `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string  `json:"token_type" example:"Bearer"`
	ExpiresIn    int     `json:"expires_in" example:"3600"`
	User         UserDTO `json:"user"`
}

// UserDTO represents user information returned in auth responses
type UserDTO struct {
	ID        uint   `json:"id" example:"123"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string `json:"name" example:"Jane Field"`
	Email     string `json:"email" example:"jane@example.com"`
	Role      string `json:"role" example:"user"`
	IsActive  *bool  `json:"is_active" example:"false"`
	CreatedAt string `json:"created_at" example:"2026-08-30T10:00:00Z"`
}
