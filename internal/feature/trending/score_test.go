package trending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 30.0, Score(10, 0, 0, 0))
	assert.InDelta(t, -1.0, Score(0, 0, 0, 10), 1e-9)
	assert.Equal(t, 0.0, Score(0, 0, 0, 0))
	assert.Equal(t, 3.0+5.0+1.0, Score(1, 1, 1, 0))
	// 很旧的内容可以是负分
	assert.Less(t, Score(0, 0, 0, 365), 0.0)
}

func TestParseWindow(t *testing.T) {
	assert.Equal(t, WindowDay, ParseWindow("day"))
	assert.Equal(t, WindowWeek, ParseWindow("week"))
	assert.Equal(t, WindowMonth, ParseWindow("month"))
	assert.Equal(t, WindowAll, ParseWindow("all"))
	assert.Equal(t, WindowWeek, ParseWindow(""))
	assert.Equal(t, WindowWeek, ParseWindow("year"))
}

func TestWindowCacheKey(t *testing.T) {
	seen := map[string]bool{GenerationKey: true}
	for _, gen := range []int64{0, 1} {
		for _, w := range []Window{WindowDay, WindowWeek, WindowMonth, WindowAll} {
			k := w.CacheKey(gen)
			assert.False(t, seen[k], k)
			seen[k] = true
		}
	}
	assert.Equal(t, "trending:3:week", WindowWeek.CacheKey(3))
}

func TestWindowSince(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	assert.Nil(t, WindowAll.Since(now))

	since := WindowDay.Since(now)
	require.NotNil(t, since)
	assert.Equal(t, now.Add(-24*time.Hour), *since)

	assert.Equal(t, now.AddDate(0, 0, -30), *WindowMonth.Since(now))
}

func TestAgeDays(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2.5, AgeDays(now, now.Add(-60*time.Hour)), 1e-9)
}

func TestRank(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	day := func(n int) *time.Time { t := now.AddDate(0, 0, -n); return &t }

	posts := []domain.Post{
		{ID: "old-popular", Likes: 10, PublishedAt: day(20)},      // 30 - 2 = 28
		{ID: "fresh", Likes: 1, Comments: 1, PublishedAt: day(0)}, // 8
		{ID: "commented", Comments: 6, PublishedAt: day(1)},       // 30 - 0.1
		{ID: "nothing", CreatedAt: now.AddDate(0, 0, -50)},        // -5, 无发布时间取创建时间
	}

	got := Rank(posts, now, 0)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"commented", "old-popular", "fresh", "nothing"},
		[]string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	assert.InDelta(t, -5.0, got[3].Score, 1e-9)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}

	top := Rank(posts, now, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "commented", top[0].ID)
}

func TestRank_RecencyBreaksEqualEngagement(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	older := now.AddDate(0, 0, -3)
	newer := now.AddDate(0, 0, -1)
	got := Rank([]domain.Post{
		{ID: "older", Likes: 5, PublishedAt: &older},
		{ID: "newer", Likes: 5, PublishedAt: &newer},
	}, now, 10)
	assert.Equal(t, "newer", got[0].ID)
}
