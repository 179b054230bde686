package dto

// LoginRequest represents token issuance credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a refresh token exchange request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh" binding:"required"`
}

// TokenResponse represents an issued access/refresh token pair
type TokenResponse struct {
	AccessToken      string `json:"access"`
	RefreshToken     string `json:"refresh"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type" example:"Bearer"`
}
