package handlers

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"xchain-backend/internal/config"
	"xchain-backend/internal/dto"
)

// TokenIssuer signs and verifies the HS256 bearer tokens of the API
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer from the auth configuration
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, ttl: ttl}
}

// Generate signs a token acting as account
func (t *TokenIssuer) Generate(account string) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is not configured")
	}
	now := time.Now()
	expiresAt := now.Add(t.ttl)
	claims := dto.JWTClaims{
		Account: account,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.issuer,
			Subject:   account,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token failed: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Validate verifies signature, expiry and issuer and returns the claims
func (t *TokenIssuer) Validate(tokenString string) (*dto.JWTClaims, error) {
	if len(t.secret) == 0 {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &dto.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*dto.JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Account == "" {
		return nil, fmt.Errorf("token has no account")
	}
	return claims, nil
}
