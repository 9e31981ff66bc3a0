package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qr-forever/resolver/ratelimit"
)

//clientIdentifier derives the limiting key from the trusted proxy header
func clientIdentifier(r *http.Request) string {
	identifier := r.Header.Get("CF-Connecting-IP")
	if identifier == "" {
		return "unknown"
	}

	return identifier
}

//RateLimit rejects requests above maxPerWindow per client identifier
//within the fixed window
func RateLimit(limiter *ratelimit.Limiter, maxPerWindow int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.IsLimited(clientIdentifier(c.Request), maxPerWindow) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: ErrRateLimitExceeded})
			return
		}

		c.Next()
	}
}
