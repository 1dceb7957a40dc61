package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/core/cache"
	"github.com/arpit00000/Blog-Devonate/internal/core/config"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/repo"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

// publish 直接落一篇已发布文章
func (f *fixture) publish(t *testing.T, mut func(p *domain.Post)) *domain.Post {
	t.Helper()
	p := &domain.Post{
		ID:          utils.NewID(),
		Title:       "title",
		Content:     "content",
		AuthorID:    f.author.ID,
		AuthorName:  f.author.Name,
		Status:      domain.StatusPublished,
		ReadTime:    1,
		CreatedAt:   fixedNow.Add(-time.Hour),
		PublishedAt: func() *time.Time { ts := fixedNow.Add(-time.Hour); return &ts }(),
	}
	if mut != nil {
		mut(p)
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

func (f *fixture) engagementService() *EngagementService {
	return NewEngagementService(f.likes, f.posts, f.comments, f.users, zap.NewNop())
}

func TestEngagementService_Likes(t *testing.T) {
	f := newFixture(t)
	svc := f.engagementService()
	ctx := context.Background()
	p := f.publish(t, nil)

	liked, err := svc.LikeStatus(ctx, "", p.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = svc.ToggleLike(ctx, "", p.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	liked, err = svc.ToggleLike(ctx, f.reader.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = svc.LikeStatus(ctx, f.reader.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.ToggleLike(ctx, f.reader.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err := f.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Likes)

	draft := f.publish(t, func(p *domain.Post) { p.Status = domain.StatusDraft; p.PublishedAt = nil })
	_, err = svc.ToggleLike(ctx, f.reader.ID, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngagementService_Views(t *testing.T) {
	f := newFixture(t)
	svc := f.engagementService()
	ctx := context.Background()
	p := f.publish(t, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordView(ctx, p.ID))
	}
	got, err := f.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Views)

	assert.ErrorIs(t, svc.RecordView(ctx, "missing"), domain.ErrNotFound)
}

func TestEngagementService_Comments(t *testing.T) {
	f := newFixture(t)
	svc := f.engagementService()
	ctx := context.Background()
	p := f.publish(t, nil)

	_, err := svc.AddComment(ctx, f.reader.ID, p.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = svc.AddComment(ctx, f.reader.ID, p.ID, strings.Repeat("x", 2001))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	c, err := svc.AddComment(ctx, f.reader.ID, p.ID, " nice post ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", c.Content)
	assert.Equal(t, "Bob", c.AuthorName)

	page, err := svc.ListComments(ctx, p.ID, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Pagination.Total)
	require.Len(t, page.Items, 1)

	got, err := f.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Comments)
}

func (f *fixture) discoveryService() *DiscoveryService {
	s := NewDiscoveryService(f.posts, cache.Noop(),
		config.Search{DefaultLimit: 12, MaxLimit: 100, TagSummaryLimit: 50},
		config.Trending{DefaultLimit: 20, MaxLimit: 100, CacheTTLSec: 60},
		zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestDiscoveryService_Search(t *testing.T) {
	f := newFixture(t)
	svc := f.discoveryService()
	ctx := context.Background()

	f.publish(t, func(p *domain.Post) { p.Title = "Go generics"; p.Tags = []string{"go"} })
	f.publish(t, func(p *domain.Post) { p.Title = "Rust traits"; p.Tags = []string{"rust"} })
	f.publish(t, func(p *domain.Post) { p.Title = "Go draft"; p.Status = domain.StatusDraft; p.PublishedAt = nil })

	res, err := svc.Search(ctx, SearchParams{Query: "go"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Go generics", res.Items[0].Title)
	assert.Equal(t, 12, res.Pagination.Limit)
	assert.Equal(t, "newest", res.Query.SortBy)
	assert.Len(t, res.TagFrequencies, 2)

	res, err = svc.Search(ctx, SearchParams{Tags: []string{"rust", " "}, SortBy: "bogus"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, []string{"rust"}, res.Query.Tags)
	assert.Equal(t, "newest", res.Query.SortBy)

	// 筛选条件不套用写入时的个数和长度限制
	many := []string{"rust", "rust", strings.Repeat("x", 40)}
	for i := 0; i < 10; i++ {
		many = append(many, fmt.Sprintf("t%d", i))
	}
	res, err = svc.Search(ctx, SearchParams{Tags: many})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Rust traits", res.Items[0].Title)
	assert.Len(t, res.Query.Tags, 12)

	res, err = svc.Search(ctx, SearchParams{Page: 9})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 2, res.Pagination.Total)
}

func TestDiscoveryService_Trending(t *testing.T) {
	f := newFixture(t)
	svc := f.discoveryService()
	ctx := context.Background()

	old := fixedNow.Add(-40 * 24 * time.Hour)
	hot := f.publish(t, func(p *domain.Post) { p.Title = "hot"; p.Likes = 10 })
	warm := f.publish(t, func(p *domain.Post) { p.Title = "warm"; p.Views = 5 })
	classic := f.publish(t, func(p *domain.Post) { p.Title = "classic"; p.Likes = 100; p.CreatedAt = old; p.PublishedAt = &old })

	res, err := svc.Trending(ctx, "week", 0)
	require.NoError(t, err)
	assert.Equal(t, "week", res.Timeframe)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, hot.ID, res.Items[0].ID)
	assert.Equal(t, warm.ID, res.Items[1].ID)

	res, err = svc.Trending(ctx, "whenever", 0)
	require.NoError(t, err)
	assert.Equal(t, "week", res.Timeframe)

	res, err = svc.Trending(ctx, "all", 1)
	require.NoError(t, err)
	assert.Equal(t, "all", res.Timeframe)
	require.Len(t, res.Items, 1)
	assert.Equal(t, classic.ID, res.Items[0].ID)
}

func TestDiscoveryService_TrendingCacheInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	f := newFixture(t)
	disc := f.discoveryService()
	disc.cache = c
	mod := f.moderationService()
	mod.cache = c
	ctx := context.Background()

	a := f.publish(t, func(p *domain.Post) { p.Title = "a"; p.Likes = 3 })
	res, err := disc.Trending(ctx, "week", 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	require.True(t, mr.Exists("blog:trending:0:week"))
	assert.Equal(t, time.Minute, mr.TTL("blog:trending:0:week"))

	// 绕过服务直接入库的文章，在缓存过期前不出现
	b := f.publish(t, func(p *domain.Post) { p.Title = "b"; p.Likes = 9 })
	res, err = disc.Trending(ctx, "week", 1)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, a.ID, res.Items[0].ID)

	_, err = mod.Moderate(ctx, "mod-1", a.ID, "hide", "")
	require.NoError(t, err)
	gen, err := mr.Get("blog:trending:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	res, err = disc.Trending(ctx, "week", 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, b.ID, res.Items[0].ID)
	assert.True(t, mr.Exists("blog:trending:1:week"))
}

// racingPosts 在取完候选集之后执行一次 hook，模拟回源期间发生的审核
type racingPosts struct {
	*repo.PostRepo
	afterCandidates func()
}

func (r *racingPosts) TrendingCandidates(ctx context.Context, since *time.Time) ([]domain.Post, error) {
	posts, err := r.PostRepo.TrendingCandidates(ctx, since)
	if hook := r.afterCandidates; hook != nil {
		r.afterCandidates = nil
		hook()
	}
	return posts, err
}

func TestDiscoveryService_TrendingInvalidationDuringLoad(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	f := newFixture(t)
	mod := f.moderationService()
	mod.cache = c
	ctx := context.Background()

	a := f.publish(t, func(p *domain.Post) { p.Title = "a"; p.Likes = 30 })
	b := f.publish(t, func(p *domain.Post) { p.Title = "b"; p.Likes = 1 })

	disc := f.discoveryService()
	disc.cache = c
	disc.posts = &racingPosts{PostRepo: f.posts, afterCandidates: func() {
		_, err := mod.Moderate(ctx, "mod-1", a.ID, "hide", "")
		require.NoError(t, err)
	}}

	// 这次回源读到的是隐藏前的数据，结果写进旧代数
	res, err := disc.Trending(ctx, "week", 0)
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	assert.True(t, mr.Exists("blog:trending:0:week"))

	res, err = disc.Trending(ctx, "week", 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, b.ID, res.Items[0].ID)
}

func TestStatsService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publish(t, func(p *domain.Post) { p.Views = 7; p.Likes = 2 })
	f.publish(t, func(p *domain.Post) { p.Status = domain.StatusHidden; p.Views = 3 })
	f.submitted(t, "pending")

	st, err := NewStatsService(f.users, f.posts).Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.TotalUsers)
	assert.EqualValues(t, 3, st.TotalPosts)
	assert.EqualValues(t, 1, st.PublishedPosts)
	assert.EqualValues(t, 1, st.HiddenPosts)
	assert.EqualValues(t, 1, st.PendingPosts)
	assert.EqualValues(t, 10, st.TotalViews)
	assert.EqualValues(t, 2, st.TotalLikes)
}
