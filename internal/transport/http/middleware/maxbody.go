package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "github.com/arpit00000/Blog-Devonate/internal/transport/http/response"
)

// MaxBodyBytes 超限时读取 body 报 *http.MaxBytesError，由 ez 绑定映射为 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			reject(c, "body_too_large", resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
