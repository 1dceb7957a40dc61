package service

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blog_submissions_total", Help: "Post submissions by auto-moderation outcome"},
		[]string{"outcome"},
	)
	moderationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blog_moderation_actions_total", Help: "Moderator actions applied"},
		[]string{"action"},
	)
	likeTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blog_like_toggles_total", Help: "Like toggles by resulting state"},
		[]string{"liked"},
	)
	viewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blog_views_total", Help: "Recorded post views"},
	)
	trendingCacheLoads = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blog_trending_loads_total", Help: "Trending computations that missed the cache"},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, moderationTotal, likeTogglesTotal, viewsTotal, trendingCacheLoads)
}
