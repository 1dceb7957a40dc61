package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/core/cache"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/feature/moderation"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

const (
	maxTitleRunes   = 200
	maxExcerptRunes = 1000
	excerptRunes    = 200
	maxTags         = 10
	maxTagRunes     = 32
	wordsPerMinute  = 200

	// 自动审核在流水里的操作者
	systemActor = "system"
)

// 提交结果
const (
	ResultDraft             = "draft"
	ResultAcceptedForReview = "accepted-for-review"
	ResultAutoPublished     = "auto-published"
)

type PostService struct {
	posts  domain.PostRepository
	users  domain.UserRepository
	scorer moderation.Scorer
	cache  *cache.Cache
	log    *zap.Logger
	now    Clock
}

func NewPostService(posts domain.PostRepository, users domain.UserRepository, scorer moderation.Scorer, c *cache.Cache, log *zap.Logger) *PostService {
	if scorer == nil {
		scorer = moderation.LengthScorer{}
	}
	return &PostService{posts: posts, users: users, scorer: scorer, cache: c, log: log, now: utcNow}
}

type PostInput struct {
	Title   string
	Content string
	Excerpt string
	Tags    []string
}

type SubmitResult struct {
	ID     string        `json:"id"`
	Status domain.Status `json:"status"`
	Result string        `json:"result"`
}

// Create 先落 draft；submit 为真时立即走提交流程
func (s *PostService) Create(ctx context.Context, authorID string, in PostInput, submit bool) (*SubmitResult, error) {
	if err := normalizeInput(&in); err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := &domain.Post{
		ID:          utils.NewID(),
		Title:       in.Title,
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		Tags:        in.Tags,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Status:      domain.StatusDraft,
		ReadTime:    ReadTime(in.Content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	if !submit {
		return &SubmitResult{ID: p.ID, Status: p.Status, Result: ResultDraft}, nil
	}
	return s.submit(ctx, p)
}

// Update 作者只能改自己的草稿
func (s *PostService) Update(ctx context.Context, authorID, postID string, in PostInput) (*SubmitResult, error) {
	if err := normalizeInput(&in); err != nil {
		return nil, err
	}
	p, err := s.ownDraft(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}
	p.Title, p.Content, p.Excerpt, p.Tags = in.Title, in.Content, in.Excerpt, in.Tags
	p.ReadTime = ReadTime(in.Content)
	p.UpdatedAt = s.now()
	if err := s.posts.UpdateDraft(ctx, p); err != nil {
		return nil, err
	}
	return &SubmitResult{ID: p.ID, Status: domain.StatusDraft, Result: ResultDraft}, nil
}

func (s *PostService) Submit(ctx context.Context, authorID, postID string) (*SubmitResult, error) {
	p, err := s.ownDraft(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, p)
}

func (s *PostService) ownDraft(ctx context.Context, authorID, postID string) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != authorID {
		return nil, fmt.Errorf("%w: not the author", domain.ErrForbidden)
	}
	if p.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: post is %s", domain.ErrInvalidAction, p.Status)
	}
	return p, nil
}

// submit draft → submitted，再由 scorer 决定是否直接发布；scorer 出错按待审处理
func (s *PostService) submit(ctx context.Context, p *domain.Post) (*SubmitResult, error) {
	now := s.now()
	next, err := moderation.Next(p.Status, moderation.ActionSubmit)
	if err != nil {
		return nil, err
	}
	sub, err := s.posts.Transition(ctx, domain.Transition{
		PostID:    p.ID,
		Action:    string(moderation.ActionSubmit),
		From:      p.Status,
		To:        next,
		ActorID:   p.AuthorID,
		At:        now,
		SetSubmit: true,
	})
	if err != nil {
		return nil, err
	}

	decision, err := s.scorer.Evaluate(ctx, sub)
	if err != nil {
		s.log.Warn("auto moderation failed, holding for review", zap.String("post_id", sub.ID), zap.Error(err))
		decision = moderation.DecisionHold
	}
	if decision != moderation.DecisionApprove {
		submissionsTotal.WithLabelValues("held").Inc()
		s.log.Info("post held for review", zap.String("post_id", sub.ID))
		return &SubmitResult{ID: sub.ID, Status: sub.Status, Result: ResultAcceptedForReview}, nil
	}

	to, err := moderation.Next(sub.Status, moderation.ActionApprove)
	if err != nil {
		return nil, err
	}
	pub, err := s.posts.Transition(ctx, domain.Transition{
		PostID:     sub.ID,
		Action:     "auto-approve",
		From:       sub.Status,
		To:         to,
		ActorID:    systemActor,
		At:         s.now(),
		SetPublish: true,
	})
	if errors.Is(err, domain.ErrInvalidAction) {
		// 审核员抢先处理了，以当前状态为准
		cur, ferr := s.posts.FindByID(ctx, sub.ID)
		if ferr != nil {
			return nil, ferr
		}
		return &SubmitResult{ID: cur.ID, Status: cur.Status, Result: ResultAcceptedForReview}, nil
	}
	if err != nil {
		return nil, err
	}
	submissionsTotal.WithLabelValues("auto_published").Inc()
	InvalidateTrending(ctx, s.cache, s.log)
	s.log.Info("post auto-published", zap.String("post_id", pub.ID))
	return &SubmitResult{ID: pub.ID, Status: pub.Status, Result: ResultAutoPublished}, nil
}

// Get 已发布对所有人可见；作者和管理员可看任意状态
func (s *PostService) Get(ctx context.Context, viewerID, viewerRole, postID string) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.IsPublished() || (viewerID != "" && viewerID == p.AuthorID) || viewerRole == domain.RoleAdmin {
		return p, nil
	}
	return nil, fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
}

type DashboardStats struct {
	TotalPosts     int   `json:"totalPosts"`
	PublishedPosts int   `json:"publishedPosts"`
	DraftPosts     int   `json:"draftPosts"`
	SubmittedPosts int   `json:"submittedPosts"`
	TotalViews     int64 `json:"totalViews"`
	TotalLikes     int64 `json:"totalLikes"`
}

type Dashboard struct {
	Posts []domain.Post  `json:"posts"`
	Stats DashboardStats `json:"stats"`
}

func (s *PostService) Dashboard(ctx context.Context, authorID string) (*Dashboard, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Posts: posts}
	if d.Posts == nil {
		d.Posts = []domain.Post{}
	}
	d.Stats.TotalPosts = len(posts)
	for _, p := range posts {
		switch p.Status {
		case domain.StatusPublished:
			d.Stats.PublishedPosts++
		case domain.StatusDraft:
			d.Stats.DraftPosts++
		case domain.StatusSubmitted:
			d.Stats.SubmittedPosts++
		}
		d.Stats.TotalViews += p.Views
		d.Stats.TotalLikes += p.Likes
	}
	return d, nil
}

func normalizeInput(in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: title and content are required", domain.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(in.Title) > maxTitleRunes {
		return fmt.Errorf("%w: title exceeds %d characters", domain.ErrInvalidRequest, maxTitleRunes)
	}
	if utf8.RuneCountInString(in.Excerpt) > maxExcerptRunes {
		return fmt.Errorf("%w: excerpt exceeds %d characters", domain.ErrInvalidRequest, maxExcerptRunes)
	}
	if in.Excerpt == "" {
		in.Excerpt = DefaultExcerpt(in.Content)
	}
	tags, err := NormalizeTags(in.Tags)
	if err != nil {
		return err
	}
	in.Tags = tags
	return nil
}

// DefaultExcerpt 正文前 200 个字符加省略号
func DefaultExcerpt(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= excerptRunes {
		return content
	}
	return string([]rune(content)[:excerptRunes]) + "..."
}

// ReadTime 按每分钟 200 词估算，至少 1 分钟
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	m := (words + wordsPerMinute - 1) / wordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}

// NormalizeTags 写入用：去重后校验个数与长度
func NormalizeTags(in []string) ([]string, error) {
	out := dedupeTags(in)
	for _, t := range out {
		if utf8.RuneCountInString(t) > maxTagRunes {
			return nil, fmt.Errorf("%w: tag %q exceeds %d characters", domain.ErrInvalidRequest, t, maxTagRunes)
		}
	}
	if len(out) > maxTags {
		return nil, fmt.Errorf("%w: at most %d tags", domain.ErrInvalidRequest, maxTags)
	}
	return out, nil
}

// dedupeTags 去空白、去空、去重（保留首次出现）；筛选条件不受写入限制
func dedupeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
