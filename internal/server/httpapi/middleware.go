package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// ContextAccountKey is the gin context key under which RequireAuth stores
// the authenticated account.
const ContextAccountKey = "auth.account"

const requestIDHeader = "X-Request-ID"

// RequireAuth verifies the session cookie and resolves its account. Every
// failure cause collapses to the same "not authenticated" response.
func (s *HTTPServer) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "not authenticated",
			})
			return
		}

		account, err := s.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorUnavailable) {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"code":    "SERVICE_UNAVAILABLE",
					"message": "service temporarily unavailable",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "not authenticated",
			})
			return
		}

		c.Set(ContextAccountKey, account)
		c.Next()
	}
}

// requestID tags every request with an ID for log correlation, honoring one
// supplied by an upstream proxy.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog writes one structured line per request.
func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", c.GetString(requestIDHeader),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
