package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

const maxCommentRunes = 2000

type EngagementService struct {
	likes    domain.LikeRepository
	posts    domain.PostRepository
	comments domain.CommentRepository
	users    domain.UserRepository
	log      *zap.Logger
	now      Clock
}

func NewEngagementService(
	likes domain.LikeRepository,
	posts domain.PostRepository,
	comments domain.CommentRepository,
	users domain.UserRepository,
	log *zap.Logger,
) *EngagementService {
	return &EngagementService{likes: likes, posts: posts, comments: comments, users: users, log: log, now: utcNow}
}

// ToggleLike 返回切换后的状态
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUnauthenticated
	}
	liked, err := s.likes.Toggle(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	likeTogglesTotal.WithLabelValues(strconv.FormatBool(liked)).Inc()
	s.log.Debug("like toggled", zap.String("post_id", postID), zap.String("user_id", userID), zap.Bool("liked", liked))
	return liked, nil
}

// LikeStatus 匿名访问恒为 false
func (s *EngagementService) LikeStatus(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.likes.Exists(ctx, postID, userID)
}

// RecordView 每次调用加 1，不按访客去重
func (s *EngagementService) RecordView(ctx context.Context, postID string) error {
	if err := s.posts.IncrementViews(ctx, postID); err != nil {
		return err
	}
	viewsTotal.Inc()
	return nil
}

func (s *EngagementService) AddComment(ctx context.Context, userID, postID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(content) > maxCommentRunes {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", domain.ErrInvalidRequest, maxCommentRunes)
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := &domain.Comment{
		ID:         utils.NewID(),
		PostID:     postID,
		AuthorID:   u.ID,
		AuthorName: u.Name,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type CommentPage struct {
	Items      []domain.Comment `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

func (s *EngagementService) ListComments(ctx context.Context, postID string, page, limit int) (*CommentPage, error) {
	page, limit, offset := pageWindow(page, limit, 20, 100)
	items, total, err := s.comments.ListByPost(ctx, postID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Items: items, Pagination: newPagination(page, limit, total)}, nil
}
