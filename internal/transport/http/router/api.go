package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arpit00000/Blog-Devonate/internal/core/auth"
	"github.com/arpit00000/Blog-Devonate/internal/core/config"
	"github.com/arpit00000/Blog-Devonate/internal/core/server"
	mdw "github.com/arpit00000/Blog-Devonate/internal/transport/http/middleware"
	resp "github.com/arpit00000/Blog-Devonate/internal/transport/http/response"
)

// HealthCheck 依赖探活（DB、redis）
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Log    *zap.Logger
	JWT    *auth.JWTer
	Limits config.Limits
	Mode   string
	Health HealthCheck
}

// base 两个引擎共用的中间件链
func base(d Deps, name string, gz bool) *gin.Engine {
	mustRegisterValidators()
	r := server.NewRouter(d.Log, server.Options{Name: name, Mode: d.Mode, Gzip: gz})
	r.Use(mdw.RequestID(), mdw.Metrics(name), mdw.AccessLog(d.Log))
	// 限流项为 0 表示不启用
	if l := d.Limits; l.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(l.RPS), l.Burst))
	}
	if l := d.Limits; l.IPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(l.IPRPS), l.IPBurst, 10*time.Minute))
	}
	if l := d.Limits; l.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(l.MaxConcurrent, time.Second))
	}
	if l := d.Limits; l.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(l.MaxBodyBytes))
	}
	if l := d.Limits; l.RequestTimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(l.RequestTimeoutSec) * time.Second))
	}

	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				resp.JSON(c, resp.Error(resp.CodeUnavailable, "unhealthy"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine 用户端：/api/v1，身份可选，具体接口自行声明 Auth
func NewAPIEngine(d Deps, reg *Registry) *gin.Engine {
	r := base(d, "api", true)
	api := r.Group("/api/v1")
	api.Use(mdw.OptionalAuth(d.JWT))
	reg.MountAllAPI(api)
	return r
}
