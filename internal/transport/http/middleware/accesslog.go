package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arpit00000/Blog-Devonate/internal/core/auth"
)

var sensitiveQueryKeys = map[string]bool{
	"password": true, "pwd": true, "token": true, "access_token": true,
	"authorization": true, "secret": true, "client_secret": true,
}

// 探活和采集请求量大，只在 debug 输出
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

func maskQuery(q url.Values) map[string][]string {
	if len(q) == 0 {
		return nil
	}
	out := make(map[string][]string, len(q))
	for k, v := range q {
		if sensitiveQueryKeys[strings.ToLower(k)] {
			v = []string{"****"}
		}
		out[k] = v
	}
	return out
}

func accessLevel(c *gin.Context, status int) zapcore.Level {
	switch {
	case len(c.Errors) > 0:
		return zapcore.ErrorLevel
	case status >= 500:
		return zapcore.WarnLevel
	case quietPaths[c.Request.URL.Path]:
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// AccessLog 每个请求一行；path 用路由模板，uid 来自鉴权中间件
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ce := l.Check(accessLevel(c, status), "HTTP")
		if ce == nil {
			return
		}
		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Int("size", max(0, c.Writer.Size())),
		}
		if q := maskQuery(c.Request.URL.Query()); q != nil {
			fields = append(fields, zap.Any("query", q))
		}
		if uid := c.GetString(auth.CtxUserID); uid != "" {
			fields = append(fields, zap.String("uid", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		ce.Write(fields...)
	}
}
