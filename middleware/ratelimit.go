package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lensfolio/api/ratelimit"
)

// RateLimit enforces policy per client IP.
func RateLimit(limiter ratelimit.Limiter, policy ratelimit.Policy) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(policy.Window.Seconds()))
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", policy.Name, c.ClientIP())
		if !limiter.Allow(c.Request.Context(), key, policy.MaxRequests, policy.Window) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
