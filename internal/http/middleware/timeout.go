package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout ограничивает время обращения к хранилищу в рамках запроса.
// Превышение срока превращается в TRANSPORT_ERROR на уровне адаптеров.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
