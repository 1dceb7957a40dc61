package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	resp "github.com/arpit00000/Blog-Devonate/internal/transport/http/response"
)

// Timeout 只给下游 ctx 加截止时间，不另起 goroutine；
// 仓储调用因 ctx 超时返回后，若还没写响应则补 504
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() != context.DeadlineExceeded || c.Writer.Written() {
			return
		}
		reject(c, "timeout", resp.CodeTimeout, "request timeout")
	}
}
