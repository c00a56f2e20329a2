package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/trieroute/trieroute/pkg/common"
)

// AuthFunc validates a bearer token and reports whether it is acceptable.
type AuthFunc func(token string) bool

// BearerAuth creates a middleware that requires a valid bearer token in the
// Authorization header. On failure it writes a 401 Unauthorized response and
// halts the dispatch.
func BearerAuth(auth AuthFunc, logger *zap.Logger) Middleware {
	return func(c *common.Context) common.Decision {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			logger.Warn("Authentication failed: no authorization header",
				zap.String("method", c.Method),
				zap.String("path", c.Path),
				zap.String("client_ip", ClientIP(c)),
			)
			http.Error(c.Writer(), "Unauthorized", http.StatusUnauthorized)
			return common.Halt
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if !auth(token) {
			logger.Warn("Authentication failed: invalid token",
				zap.String("method", c.Method),
				zap.String("path", c.Path),
				zap.String("client_ip", ClientIP(c)),
			)
			http.Error(c.Writer(), "Unauthorized", http.StatusUnauthorized)
			return common.Halt
		}

		logger.Debug("Authentication successful",
			zap.String("method", c.Method),
			zap.String("path", c.Path),
		)
		return common.Proceed
	}
}
