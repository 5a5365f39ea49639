package dto

import "github.com/golang-jwt/jwt/v5"

// ==================== Auth DTOs ====================

// JWTClaims JWT Claims structure
type JWTClaims struct {
	Account string `json:"account"` // ledger account acting as the caller
	jwt.RegisteredClaims
}

// TokenResponse issued token
type TokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	Account   string `json:"account"`
	ExpiresAt int64  `json:"expires_at"`
}
