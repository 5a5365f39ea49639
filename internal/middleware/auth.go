package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"xchain-backend/internal/handlers"
)

// AuthMiddleware JWT
type AuthMiddleware struct {
	tokens *handlers.TokenIssuer
	logger *logrus.Logger
}

// NewAuthMiddleware create JWT middleware
func NewAuthMiddleware(tokens *handlers.TokenIssuer, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's account as the caller
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			a.reject(c, "MISSING_AUTH_HEADER", "Authentication required", nil)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			a.reject(c, "INVALID_AUTH_FORMAT", "Authorization header must be in format: Bearer <token>", nil)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			a.reject(c, "EMPTY_TOKEN", "Token cannot be empty", nil)
			return
		}

		claims, err := a.tokens.Validate(tokenString)
		if err != nil {
			a.reject(c, "INVALID_TOKEN", "Invalid or expired token", err)
			return
		}

		c.Set(handlers.AccountKey, claims.Account)

		a.logger.WithFields(logrus.Fields{
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
			"account": claims.Account,
		}).Debug("JWT success")

		c.Next()
	}
}

func (a *AuthMiddleware) reject(c *gin.Context, code, message string, err error) {
	fields := logrus.Fields{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
		"code":   code,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	a.logger.WithFields(fields).Warn("JWT failed")

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}
