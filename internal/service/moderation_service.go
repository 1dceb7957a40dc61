package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/core/cache"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/feature/moderation"
)

const maxReasonRunes = 500

type ModerationService struct {
	posts domain.PostRepository
	cache *cache.Cache
	log   *zap.Logger
	now   Clock
}

func NewModerationService(posts domain.PostRepository, c *cache.Cache, log *zap.Logger) *ModerationService {
	return &ModerationService{posts: posts, cache: c, log: log, now: utcNow}
}

type ModerateResult struct {
	ID      string        `json:"id"`
	Status  domain.Status `json:"status,omitempty"`
	Deleted bool          `json:"deleted,omitempty"`
}

// Moderate 审核员动作；submit 只属于作者，这里按无效动作处理
func (s *ModerationService) Moderate(ctx context.Context, moderatorID, postID, action, reason string) (*ModerateResult, error) {
	a, err := moderation.ParseAction(strings.TrimSpace(action))
	if err != nil {
		return nil, err
	}
	if !a.ModeratorOnly() {
		return nil, fmt.Errorf("%w: %s is not a moderator action", domain.ErrInvalidAction, a)
	}
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > maxReasonRunes {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", domain.ErrInvalidRequest, maxReasonRunes)
	}
	if a == moderation.ActionDelete {
		if err := s.Delete(ctx, moderatorID, postID); err != nil {
			return nil, err
		}
		return &ModerateResult{ID: postID, Deleted: true}, nil
	}

	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	to, err := moderation.Next(p.Status, a)
	if err != nil {
		return nil, err
	}
	out, err := s.posts.Transition(ctx, domain.Transition{
		PostID:     p.ID,
		Action:     string(a),
		From:       p.Status,
		To:         to,
		ActorID:    moderatorID,
		Moderator:  true,
		Reason:     reason,
		At:         s.now(),
		SetPublish: moderation.Publishes(to),
	})
	if err != nil {
		return nil, err
	}
	moderationTotal.WithLabelValues(string(a)).Inc()
	if moderation.Publishes(p.Status) || moderation.Publishes(out.Status) {
		InvalidateTrending(ctx, s.cache, s.log)
	}
	s.log.Info("post moderated",
		zap.String("post_id", p.ID),
		zap.String("moderator_id", moderatorID),
		zap.String("action", string(a)),
		zap.String("from", string(p.Status)),
		zap.String("to", string(out.Status)),
	)
	return &ModerateResult{ID: out.ID, Status: out.Status}, nil
}

// Delete 任意状态可删，不可恢复
func (s *ModerationService) Delete(ctx context.Context, moderatorID, postID string) error {
	if err := s.posts.Delete(ctx, postID, moderatorID, s.now()); err != nil {
		return err
	}
	moderationTotal.WithLabelValues(string(moderation.ActionDelete)).Inc()
	InvalidateTrending(ctx, s.cache, s.log)
	s.log.Info("post deleted", zap.String("post_id", postID), zap.String("moderator_id", moderatorID))
	return nil
}

func (s *ModerationService) History(ctx context.Context, postID string) ([]domain.ModerationLog, error) {
	logs, err := s.posts.History(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(logs) > 0 {
		return logs, nil
	}
	// 没有日志：草稿返回空列表，文章不存在才是 404。已删除的文章保留日志，走上面的分支
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post %s history: %w", postID, err)
	}
	return []domain.ModerationLog{}, nil
}

type PostPage struct {
	Items      []domain.Post `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// List 管理端列表；status 为空列出全部
func (s *ModerationService) List(ctx context.Context, status string, page, limit int) (*PostPage, error) {
	var st domain.Status
	if status != "" && status != "all" {
		var ok bool
		if st, ok = domain.ParseStatus(status); !ok {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, status)
		}
	}
	page, limit, offset := pageWindow(page, limit, 20, 100)
	items, total, err := s.posts.List(ctx, st, offset, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Post{}
	}
	return &PostPage{Items: items, Pagination: newPagination(page, limit, total)}, nil
}
