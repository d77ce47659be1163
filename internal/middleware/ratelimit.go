package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dojo-api/internal/service"
	"github.com/noah-isme/dojo-api/pkg/response"
)

// LoginRateLimit counts login attempts per client IP and clears the counter after a
// successful login.
func LoginRateLimit(limiter *service.LoginLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := c.ClientIP()
		if err := limiter.Allow(c.Request.Context(), client); err != nil {
			c.Header("Retry-After", "60")
			response.Abort(c, err)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			limiter.Reset(c.Request.Context(), client)
		}
	}
}
