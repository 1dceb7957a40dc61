package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arpit00000/Blog-Devonate/internal/service"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/ez"
)

// DiscoveryModule 搜索与热榜，匿名可访问
type DiscoveryModule struct {
	Discovery *service.DiscoveryService
}

func (DiscoveryModule) Priority() int { return 30 }

type searchQ struct {
	Q      string `form:"q"      binding:"omitempty,max=200"`
	Tags   string `form:"tags"`
	Author string `form:"author" binding:"omitempty,max=64"`
	SortBy string `form:"sortBy"`
	Page   int    `form:"page"   binding:"omitempty,min=1"`
	Limit  int    `form:"limit"  binding:"omitempty,min=1"`
}

type trendingQ struct {
	Timeframe string `form:"timeframe"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
}

// splitTags 逗号分隔的 tags 参数
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (m DiscoveryModule) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[searchQ, *service.SearchResult]{
		Method: http.MethodGet,
		Path:   "/search",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *searchQ) (*service.SearchResult, error) {
			return m.Discovery.Search(c.Request.Context(), service.SearchParams{
				Query:  in.Q,
				Tags:   splitTags(in.Tags),
				Author: in.Author,
				SortBy: in.SortBy,
				Page:   in.Page,
				Limit:  in.Limit,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[trendingQ, *service.TrendingResult]{
		Method: http.MethodGet,
		Path:   "/trending",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *trendingQ) (*service.TrendingResult, error) {
			return m.Discovery.Trending(c.Request.Context(), in.Timeframe, in.Limit)
		},
	})
}
