// Package trending 热度评分：加权互动数 + 按天衰减的时间项
package trending

import (
	"sort"
	"strconv"
	"time"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

const (
	WeightLikes    = 3.0
	WeightComments = 5.0
	WeightViews    = 1.0
	WeightAgeDays  = -0.1
)

type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// GenerationKey 榜单代数计数器；失效时加一，旧代数下的榜单不再被读到
const GenerationKey = "trending:gen"

// CacheKey 每个代数、每个窗口缓存一份按最大条数排好的榜单
func (w Window) CacheKey(gen int64) string {
	return "trending:" + strconv.FormatInt(gen, 10) + ":" + string(w)
}

// ParseWindow 空值或未知值按 week 处理
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowDay, WindowMonth, WindowAll:
		return Window(s)
	}
	return WindowWeek
}

// Duration all 返回 0
func (w Window) Duration() time.Duration {
	switch w {
	case WindowDay:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Since 窗口起点；all 返回 nil
func (w Window) Since(now time.Time) *time.Time {
	d := w.Duration()
	if d == 0 {
		return nil
	}
	t := now.Add(-d)
	return &t
}

// Score 负分合法，不做截断
func Score(likes, comments, views int64, ageDays float64) float64 {
	return WeightLikes*float64(likes) +
		WeightComments*float64(comments) +
		WeightViews*float64(views) +
		WeightAgeDays*ageDays
}

// AgeDays 以有效发布时间计
func AgeDays(now, published time.Time) float64 {
	return now.Sub(published).Seconds() / 86400
}

type Item struct {
	domain.Post
	Score float64 `json:"trendingScore"`
}

// Rank 计算分数并稳定降序，截取前 limit 条
func Rank(posts []domain.Post, now time.Time, limit int) []Item {
	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		age := AgeDays(now, p.EffectivePublishTime())
		items = append(items, Item{Post: p, Score: Score(p.Likes, p.Comments, p.Views, age)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
