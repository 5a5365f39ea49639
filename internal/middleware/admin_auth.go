package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/sirupsen/logrus"

	"xchain-backend/internal/handlers"
)

// TOTPHeader carries the one-time code on administrative requests.
const TOTPHeader = "X-TOTP-Code"

// AdminAuthMiddleware second factor for administrative routes
type AdminAuthMiddleware struct {
	totpSecret string
	logger     *logrus.Logger
}

// NewAdminAuthMiddleware creates the middleware; an empty secret disables
// the check
func NewAdminAuthMiddleware(totpSecret string, logger *logrus.Logger) *AdminAuthMiddleware {
	if totpSecret == "" {
		logger.Warn("⚠️ admin.totpSecret not set, administrative routes rely on JWT only")
	}
	return &AdminAuthMiddleware{
		totpSecret: totpSecret,
		logger:     logger,
	}
}

// RequireTOTP validates the X-TOTP-Code header against the admin secret
func (a *AdminAuthMiddleware) RequireTOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.totpSecret == "" {
			c.Next()
			return
		}

		code := c.GetHeader(TOTPHeader)
		if code == "" || !totp.Validate(code, a.totpSecret) {
			a.logger.WithFields(logrus.Fields{
				"path":    c.Request.URL.Path,
				"method":  c.Request.Method,
				"account": c.GetString(handlers.AccountKey),
			}).Warn("Admin auth failed - invalid TOTP code")

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Invalid TOTP code",
				"code":    "INVALID_TOTP",
			})
			return
		}

		c.Next()
	}
}
