package dto

import "github.com/google/uuid"

// RegisterRequest creates a student account and its profile
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255" example:"student@example.com"`
	Password    string `json:"password" binding:"required,min=8,max=72" example:"secret123"`
	FullName    string `json:"fullName" binding:"required,max=100" example:"Asha Rao"`
	Mobile      string `json:"mobile" binding:"omitempty,max=20" example:"9876543210"`
	CollegeName string `json:"collegeName" binding:"omitempty,max=200" example:"City Engineering College"`
	Year        string `json:"year" binding:"omitempty,max=20" example:"3rd Year"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token for refresh and logout
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn" example:"3600"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty" example:"2592000"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	UserID uuid.UUID     `json:"userId"`
	Email  string        `json:"email"`
	Token  TokenResponse `json:"token"`
}
