package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Status 内容生命周期状态；submitted 即待审，published 即已通过
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
	StatusHidden    Status = "hidden"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusPublished, StatusRejected, StatusHidden:
		return true
	}
	return false
}

// ParseStatus 兼容旧称：pending 即 submitted，approved 即 published
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "pending":
		return StatusSubmitted, true
	case "approved":
		return StatusPublished, true
	}
	st := Status(s)
	return st, st.Valid()
}

// Post 统一的内容条目（文章/博客共用一张表）
type Post struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Title          string     `gorm:"size:200;not null" json:"title"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	Excerpt        string     `gorm:"size:1000" json:"excerpt"`
	AuthorID       string     `gorm:"size:36;not null;index" json:"authorId"`
	AuthorName     string     `gorm:"size:64;not null" json:"authorName"`
	AuthorEmail    string     `gorm:"size:191" json:"authorEmail"`
	Status         Status     `gorm:"size:16;not null;index;default:draft" json:"status"`
	Likes          int64      `gorm:"not null;default:0" json:"likes"`
	Views          int64      `gorm:"not null;default:0" json:"views"`
	Comments       int64      `gorm:"not null;default:0" json:"comments"`
	ReadTime       int        `gorm:"not null;default:1" json:"readTime"`
	RejectedReason string     `gorm:"size:500" json:"rejectedReason,omitempty"`
	ModeratedBy    string     `gorm:"size:36" json:"moderatedBy,omitempty"`
	ModeratedAt    *time.Time `json:"moderatedAt,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	PublishedAt    *time.Time `gorm:"index" json:"publishedAt,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// 搜索用的小写副本，SQLite 的 LOWER 只折叠 ASCII
	SearchText   string `gorm:"type:text;not null;default:''" json:"-"`
	AuthorNameLC string `gorm:"column:author_name_lc;size:64;not null;default:''" json:"-"`

	Tags []string `gorm:"-" json:"tags"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) IsPublished() bool { return p.Status == StatusPublished }

// SearchFold 标题、摘要、正文拼成一列，小写在 Go 侧完成
func SearchFold(title, excerpt, content string) string {
	return strings.ToLower(title + "\n" + excerpt + "\n" + content)
}

// RefreshSearchFields 按当前标题、正文、作者名重算搜索列
func (p *Post) RefreshSearchFields() {
	p.SearchText = SearchFold(p.Title, p.Excerpt, p.Content)
	p.AuthorNameLC = strings.ToLower(p.AuthorName)
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	p.RefreshSearchFields()
	return nil
}

// EffectivePublishTime 发布时间优先，否则取创建时间
func (p *Post) EffectivePublishTime() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// PostTag 文章标签集合，(post_id, tag) 唯一
type PostTag struct {
	PostID string `gorm:"primaryKey;size:36"`
	Tag    string `gorm:"primaryKey;size:32;index"`
	Pos    int    `gorm:"not null;default:0"`
}

func (PostTag) TableName() string { return "post_tags" }

// Like 点赞记录；(post_id, user_id) 存储层唯一
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_like_post_user" json:"postId"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_like_post_user;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string { return "likes" }

type Comment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PostID     string    `gorm:"size:36;not null;index" json:"postId"`
	AuthorID   string    `gorm:"size:36;not null" json:"authorId"`
	AuthorName string    `gorm:"size:64;not null" json:"authorName"`
	Content    string    `gorm:"size:2000;not null" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }

// ModerationLog 状态变更流水，文章删除后仍保留
type ModerationLog struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	PostID      string    `gorm:"size:36;not null;index" json:"postId"`
	ModeratorID string    `gorm:"size:36" json:"moderatorId"`
	Action      string    `gorm:"size:16;not null" json:"action"`
	FromStatus  Status    `gorm:"size:16" json:"fromStatus"`
	ToStatus    Status    `gorm:"size:16" json:"toStatus"`
	Reason      string    `gorm:"size:500" json:"reason,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (ModerationLog) TableName() string { return "moderation_logs" }

// Transition 一次带条件（CAS）的状态迁移
type Transition struct {
	PostID     string
	Action     string
	From       Status
	To         Status
	ActorID    string
	Moderator  bool // 审核员操作时记录 moderated_by/moderated_at
	Reason     string
	At         time.Time
	SetPublish bool // 仅在 published_at 为空时写入
	SetSubmit  bool
}

type SortMode string

const (
	SortNewest   SortMode = "newest"
	SortOldest   SortMode = "oldest"
	SortPopular  SortMode = "popular"
	SortTrending SortMode = "trending"
)

func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortOldest, SortPopular, SortTrending:
		return SortMode(s)
	}
	return SortNewest
}

type SearchQuery struct {
	Text   string
	Tags   []string
	Author string
	Sort   SortMode
	Offset int
	Limit  int
}

type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type EngagementTotals struct {
	Views    int64 `json:"totalViews"`
	Likes    int64 `json:"totalLikes"`
	Comments int64 `json:"totalComments"`
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	UpdateDraft(ctx context.Context, p *Post) error
	Transition(ctx context.Context, t Transition) (*Post, error)
	Delete(ctx context.Context, id, moderatorID string, at time.Time) error
	History(ctx context.Context, id string) ([]ModerationLog, error)

	ListByAuthor(ctx context.Context, authorID string) ([]Post, error)
	List(ctx context.Context, status Status, offset, limit int) ([]Post, int64, error)
	Search(ctx context.Context, q SearchQuery) ([]Post, int64, error)
	TagFrequencies(ctx context.Context, limit int) ([]TagCount, error)
	TrendingCandidates(ctx context.Context, since *time.Time) ([]Post, error)

	IncrementViews(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	Totals(ctx context.Context, status Status) (EngagementTotals, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

type LikeRepository interface {
	Toggle(ctx context.Context, postID, userID string) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]Comment, int64, error)
}
