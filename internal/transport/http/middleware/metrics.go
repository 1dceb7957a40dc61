package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	resp "github.com/arpit00000/Blog-Devonate/internal/transport/http/response"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"server", "path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blog",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"server", "path", "method"},
	)
	httpInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "blog", Name: "http_requests_in_flight", Help: "Requests being served"},
		[]string{"server"},
	)
	// 限流、并发、包体、超时拒绝的请求
	httpRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "http_rejected_total", Help: "Requests rejected by protective middleware"},
		[]string{"reason"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, httpInFlight, httpRejected) }

func reject(c *gin.Context, reason string, code int, msg string) {
	httpRejected.WithLabelValues(reason).Inc()
	resp.Abort(c, code, msg)
}

// Metrics server 区分 api / admin 两个引擎；未匹配路由统一记为 unmatched，避免标签爆炸
func Metrics(server string) gin.HandlerFunc {
	inflight := httpInFlight.WithLabelValues(server)
	return func(c *gin.Context) {
		start := time.Now()
		inflight.Inc()
		defer inflight.Dec()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpReqTotal.WithLabelValues(server, path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(server, path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
