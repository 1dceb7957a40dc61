package service

import (
	"context"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

type StatsService struct {
	users domain.UserRepository
	posts domain.PostRepository
}

func NewStatsService(users domain.UserRepository, posts domain.PostRepository) *StatsService {
	return &StatsService{users: users, posts: posts}
}

type PlatformStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalPosts     int64 `json:"totalPosts"`
	PendingPosts   int64 `json:"pendingPosts"`
	PublishedPosts int64 `json:"publishedPosts"`
	RejectedPosts  int64 `json:"rejectedPosts"`
	HiddenPosts    int64 `json:"hiddenPosts"`
	DraftPosts     int64 `json:"draftPosts"`
	TotalViews     int64 `json:"totalViews"`
	TotalLikes     int64 `json:"totalLikes"`
	TotalComments  int64 `json:"totalComments"`
}

func (s *StatsService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.posts.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.posts.Totals(ctx, "")
	if err != nil {
		return nil, err
	}
	st := &PlatformStats{
		TotalUsers:     users,
		PendingPosts:   byStatus[domain.StatusSubmitted],
		PublishedPosts: byStatus[domain.StatusPublished],
		RejectedPosts:  byStatus[domain.StatusRejected],
		HiddenPosts:    byStatus[domain.StatusHidden],
		DraftPosts:     byStatus[domain.StatusDraft],
		TotalViews:     totals.Views,
		TotalLikes:     totals.Likes,
		TotalComments:  totals.Comments,
	}
	for _, n := range byStatus {
		st.TotalPosts += n
	}
	return st, nil
}
