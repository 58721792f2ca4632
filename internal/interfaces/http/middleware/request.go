package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/pkg/auth"
)

const (
	contextRequestID = "request_id"
	contextSessionID = "session_id"

	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"
)

// RequestID tags each request with an id, reusing a sane inbound one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(contextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestSizeLimit caps request bodies
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// Session resolves the shopping session id from the X-Session-ID header or the
// session cookie, minting a new one when neither holds a valid id.
func Session(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderSessionID)
		if !validSessionID(id) {
			id, _ = c.Cookie(cfg.CookieName)
		}
		if !validSessionID(id) {
			id = uuid.NewString()
		}

		c.Set(contextSessionID, id)
		c.Header(HeaderSessionID, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, int(cfg.TTL.Seconds()), "/", "", cfg.CookieSecure, true)
		c.Next()
	}
}

func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// GetSessionIDFromContext returns the id set by Session
func GetSessionIDFromContext(c *gin.Context) string {
	return c.GetString(contextSessionID)
}

// InternalToken guards service-to-service endpoints with a shared bearer token.
// An unset token disables the endpoints.
func InternalToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Internal endpoints are disabled"})
			return
		}
		got := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if got == "" || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
