package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/core/cache"
	"github.com/arpit00000/Blog-Devonate/internal/core/config"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/feature/trending"
)

type DiscoveryService struct {
	posts    domain.PostRepository
	cache    *cache.Cache
	search   config.Search
	trending config.Trending
	log      *zap.Logger
	now      Clock
}

func NewDiscoveryService(posts domain.PostRepository, c *cache.Cache, search config.Search, tr config.Trending, log *zap.Logger) *DiscoveryService {
	return &DiscoveryService{posts: posts, cache: c, search: search, trending: tr, log: log, now: utcNow}
}

type SearchParams struct {
	Query  string
	Tags   []string
	Author string
	SortBy string
	Page   int
	Limit  int
}

// EchoQuery 实际生效的查询条件
type EchoQuery struct {
	Q      string   `json:"q"`
	Tags   []string `json:"tags"`
	Author string   `json:"author"`
	SortBy string   `json:"sortBy"`
}

type SearchResult struct {
	Items          []domain.Post     `json:"items"`
	Pagination     Pagination        `json:"pagination"`
	TagFrequencies []domain.TagCount `json:"tagFrequencies"`
	Query          EchoQuery         `json:"query"`
}

// Search 仅已发布内容；页码超出范围返回空列表
func (s *DiscoveryService) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	page, limit, offset := pageWindow(p.Page, p.Limit, s.search.DefaultLimit, s.search.MaxLimit)
	sq := domain.SearchQuery{
		Text:   strings.TrimSpace(p.Query),
		Tags:   dedupeTags(p.Tags),
		Author: strings.TrimSpace(p.Author),
		Sort:   domain.ParseSortMode(p.SortBy),
		Offset: offset,
		Limit:  limit,
	}
	items, total, err := s.posts.Search(ctx, sq)
	if err != nil {
		return nil, err
	}
	freq, err := s.posts.TagFrequencies(ctx, s.search.TagSummaryLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Post{}
	}
	return &SearchResult{
		Items:          items,
		Pagination:     newPagination(page, limit, total),
		TagFrequencies: freq,
		Query:          EchoQuery{Q: sq.Text, Tags: sq.Tags, Author: sq.Author, SortBy: string(sq.Sort)},
	}, nil
}

type TrendingResult struct {
	Items     []trending.Item `json:"items"`
	Timeframe string          `json:"timeframe"`
	Count     int             `json:"count"`
}

// Trending 每个窗口缓存一份 MaxLimit 长度的榜单，按 limit 截取；无 redis 时直接计算
func (s *DiscoveryService) Trending(ctx context.Context, timeframe string, limit int) (*TrendingResult, error) {
	w := trending.ParseWindow(timeframe)
	if limit <= 0 {
		limit = s.trending.DefaultLimit
	}
	if limit > s.trending.MaxLimit {
		limit = s.trending.MaxLimit
	}
	load := func(ctx context.Context) (*[]trending.Item, error) {
		trendingCacheLoads.Inc()
		now := s.now()
		posts, err := s.posts.TrendingCandidates(ctx, w.Since(now))
		if err != nil {
			return nil, err
		}
		items := trending.Rank(posts, now, s.trending.MaxLimit)
		return &items, nil
	}
	var ranked *[]trending.Item
	gen, err := s.cache.Generation(ctx, trending.GenerationKey)
	if err != nil {
		// 拿不到代数就不读缓存，免得读到失效前的榜单
		s.log.Warn("trending generation unavailable", zap.Error(err))
		ranked, err = load(ctx)
	} else {
		ranked, err = cache.GetOrLoadJSON(s.cache, ctx, w.CacheKey(gen), s.trending.CacheTTL(), load)
	}
	if err != nil {
		return nil, err
	}
	items := []trending.Item{}
	if ranked != nil {
		items = *ranked
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return &TrendingResult{Items: items, Timeframe: string(w), Count: len(items)}, nil
}

// InvalidateTrending 文章可见性变化后推进榜单代数，所有窗口一起失效。
// 失效前开始的回源写入旧代数的键，不会覆盖新榜单
func InvalidateTrending(ctx context.Context, c *cache.Cache, log *zap.Logger) {
	if _, err := c.Bump(ctx, trending.GenerationKey); err != nil {
		log.Warn("invalidate trending cache failed", zap.Error(err))
	}
}
