package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return replaceTags(tx, p.ID, p.Tags)
	})
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	db := r.db.WithContext(ctx)
	var p domain.Post
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "find post")
	}
	posts := []domain.Post{p}
	if err := loadTags(db, posts); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return &posts[0], nil
}

// UpdateDraft 仅 draft 状态可改；状态已变化时不写入
func (r *PostRepo) UpdateDraft(ctx context.Context, p *domain.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Post{}).
			Where("id = ? AND status = ?", p.ID, domain.StatusDraft).
			Updates(map[string]any{
				"title":       p.Title,
				"content":     p.Content,
				"excerpt":     p.Excerpt,
				"read_time":   p.ReadTime,
				"updated_at":  p.UpdatedAt,
				"search_text": domain.SearchFold(p.Title, p.Excerpt, p.Content),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return casMiss(tx, p.ID)
		}
		return replaceTags(tx, p.ID, p.Tags)
	})
	return wrap(err, "update draft")
}

// Transition 条件更新 status，并在同一事务里写审核流水
func (r *PostRepo) Transition(ctx context.Context, t domain.Transition) (*domain.Post, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upd := map[string]any{"status": t.To, "updated_at": t.At}
		if t.SetSubmit {
			upd["submitted_at"] = t.At
		}
		if t.Moderator {
			upd["moderated_by"] = t.ActorID
			upd["moderated_at"] = t.At
		}
		if t.To == domain.StatusRejected {
			upd["rejected_reason"] = t.Reason
		}
		res := tx.Model(&domain.Post{}).Where("id = ? AND status = ?", t.PostID, t.From).Updates(upd)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return casMiss(tx, t.PostID)
		}
		if t.SetPublish {
			// 发布时间只写一次
			err := tx.Model(&domain.Post{}).
				Where("id = ? AND published_at IS NULL", t.PostID).
				UpdateColumn("published_at", t.At).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(&domain.ModerationLog{
			ID:          utils.NewID(),
			PostID:      t.PostID,
			ModeratorID: t.ActorID,
			Action:      t.Action,
			FromStatus:  t.From,
			ToStatus:    t.To,
			Reason:      t.Reason,
			CreatedAt:   t.At,
		}).Error
	})
	if err != nil {
		return nil, wrap(err, "transition "+t.Action)
	}
	return r.FindByID(ctx, t.PostID)
}

// casMiss 条件更新未命中：文章不存在或状态已不允许
func casMiss(tx *gorm.DB, id string) error {
	var p domain.Post
	if err := tx.Select("id", "status").Take(&p, "id = ?", id).Error; err != nil {
		return err
	}
	return fmt.Errorf("%w: post is %s", domain.ErrInvalidAction, p.Status)
}

// Delete 物理删除文章及其标签/点赞/评论，审核流水保留
func (r *PostRepo) Delete(ctx context.Context, id, moderatorID string, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Post
		if err := tx.Select("id", "status").Take(&p, "id = ?", id).Error; err != nil {
			return err
		}
		for _, m := range []any{&domain.PostTag{}, &domain.Like{}, &domain.Comment{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("id = ?", id).Delete(&domain.Post{}).Error; err != nil {
			return err
		}
		return tx.Create(&domain.ModerationLog{
			ID:          utils.NewID(),
			PostID:      id,
			ModeratorID: moderatorID,
			Action:      "delete",
			FromStatus:  p.Status,
			CreatedAt:   at,
		}).Error
	})
	return wrap(err, "delete post")
}

func (r *PostRepo) History(ctx context.Context, id string) ([]domain.ModerationLog, error) {
	var logs []domain.ModerationLog
	err := r.db.WithContext(ctx).Where("post_id = ?", id).Order("created_at ASC").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("post history: %w", err)
	}
	return logs, nil
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	db := r.db.WithContext(ctx)
	var posts []domain.Post
	if err := db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list author posts: %w", err)
	}
	return posts, wrap(loadTags(db, posts), "load tags")
}

// List 管理端按状态列出；status 为空表示全部
func (r *PostRepo) List(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Post, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&domain.Post{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	var posts []domain.Post
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, wrap(loadTags(db, posts), "load tags")
}

// Search 只返回已发布文章；文本 OR 三个字段，标签/作者与文本 AND
func (r *PostRepo) Search(ctx context.Context, sq domain.SearchQuery) ([]domain.Post, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&domain.Post{}).Where("status = ?", domain.StatusPublished)
	if sq.Text != "" {
		q = q.Where("search_text LIKE ? ESCAPE '!'", containsPattern(sq.Text))
	}
	if len(sq.Tags) > 0 {
		q = q.Where("id IN (?)", db.Model(&domain.PostTag{}).Select("post_id").Where("tag IN ?", sq.Tags))
	}
	if sq.Author != "" {
		q = q.Where("author_name_lc LIKE ? ESCAPE '!'", containsPattern(sq.Author))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}
	var posts []domain.Post
	for _, o := range sortOrder(sq.Sort) {
		q = q.Order(o)
	}
	if err := q.Offset(sq.Offset).Limit(sq.Limit).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}
	return posts, total, wrap(loadTags(db, posts), "load tags")
}

// sortOrder trending 为不带时间衰减的纯互动排序
func sortOrder(m domain.SortMode) []string {
	switch m {
	case domain.SortOldest:
		return []string{"COALESCE(published_at, created_at) ASC", "created_at ASC"}
	case domain.SortPopular:
		return []string{"likes DESC", "views DESC", "created_at DESC"}
	case domain.SortTrending:
		return []string{"views DESC", "likes DESC", "comments DESC", "created_at DESC"}
	}
	return []string{"COALESCE(published_at, created_at) DESC", "created_at DESC"}
}

type tagRow struct {
	Tag string
	Cnt int64
}

func (r *PostRepo) TagFrequencies(ctx context.Context, limit int) ([]domain.TagCount, error) {
	var rows []tagRow
	err := r.db.WithContext(ctx).
		Table("post_tags").
		Select("post_tags.tag AS tag, COUNT(*) AS cnt").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("posts.status = ?", domain.StatusPublished).
		Group("post_tags.tag").
		Order("cnt DESC").Order("tag ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("tag frequencies: %w", err)
	}
	out := make([]domain.TagCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TagCount{Name: row.Tag, Count: row.Cnt})
	}
	return out, nil
}

// TrendingCandidates 已发布且有效发布时间不早于 since；since 为空不限时间
func (r *PostRepo) TrendingCandidates(ctx context.Context, since *time.Time) ([]domain.Post, error) {
	db := r.db.WithContext(ctx)
	q := db.Where("status = ?", domain.StatusPublished)
	if since != nil {
		q = q.Where("(published_at >= ? OR (published_at IS NULL AND created_at >= ?))", *since, *since)
	}
	var posts []domain.Post
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("trending candidates: %w", err)
	}
	return posts, wrap(loadTags(db, posts), "load tags")
}

// IncrementViews 单条 UPDATE 原子自增
func (r *PostRepo) IncrementViews(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ? AND status = ?", id, domain.StatusPublished).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("increment views: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PostRepo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	var rows []struct {
		Status domain.Status
		Cnt    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Post{}).
		Select("status, COUNT(*) AS cnt").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Cnt
	}
	return out, nil
}

func (r *PostRepo) Totals(ctx context.Context, status domain.Status) (domain.EngagementTotals, error) {
	var t domain.EngagementTotals
	q := r.db.WithContext(ctx).Model(&domain.Post{}).
		Select("COALESCE(SUM(views), 0) AS views, COALESCE(SUM(likes), 0) AS likes, COALESCE(SUM(comments), 0) AS comments")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(&t).Error; err != nil {
		return t, fmt.Errorf("engagement totals: %w", err)
	}
	return t, nil
}

// ReconcileCounters 以点赞/评论记录为准修正计数，返回修正的行数
func (r *PostRepo) ReconcileCounters(ctx context.Context) (int64, error) {
	var fixed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := tx.Exec(`UPDATE posts SET likes = (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)
			WHERE posts.likes <> (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)`)
		if likes.Error != nil {
			return likes.Error
		}
		comments := tx.Exec(`UPDATE posts SET comments = (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)
			WHERE posts.comments <> (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)`)
		if comments.Error != nil {
			return comments.Error
		}
		fixed = likes.RowsAffected + comments.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reconcile counters: %w", err)
	}
	return fixed, nil
}

func replaceTags(tx *gorm.DB, postID string, tags []string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&domain.PostTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	rows := make([]domain.PostTag, 0, len(tags))
	for i, t := range tags {
		rows = append(rows, domain.PostTag{PostID: postID, Tag: t, Pos: i})
	}
	return tx.Create(&rows).Error
}

// loadTags 批量回填 Tags，保持写入顺序
func loadTags(db *gorm.DB, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	var rows []domain.PostTag
	if err := db.Where("post_id IN ?", ids).Order("post_id, pos").Find(&rows).Error; err != nil {
		return err
	}
	byPost := make(map[string][]string, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.Tag)
	}
	for i := range posts {
		posts[i].Tags = byPost[posts[i].ID]
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}
	return nil
}
