package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arpit00000/Blog-Devonate/internal/core/database"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

// requirePublished 确认文章存在且已发布
func requirePublished(tx *gorm.DB, postID string) error {
	var p domain.Post
	return tx.Select("id").Take(&p, "id = ? AND status = ?", postID, domain.StatusPublished).Error
}

type LikeRepo struct{ db *gorm.DB }

func NewLikeRepo(db *gorm.DB) *LikeRepo { return &LikeRepo{db: db} }

// Toggle 点赞/取消点赞，记录与计数在同一事务内变更。
// 同一用户并发点赞撞上唯一索引时重跑一次，第二次会看到已提交的点赞
func (r *LikeRepo) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	liked, err := r.toggle(ctx, postID, userID)
	if database.IsDuplicateKey(err) {
		liked, err = r.toggle(ctx, postID, userID)
	}
	if err != nil {
		return false, wrap(err, "toggle like")
	}
	return liked, nil
}

func (r *LikeRepo) toggle(ctx context.Context, postID, userID string) (liked bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePublished(tx, postID); err != nil {
			return err
		}
		var like domain.Like
		err := tx.Take(&like, "post_id = ? AND user_id = ?", postID, userID).Error
		switch {
		case err == nil:
			res := tx.Delete(&domain.Like{}, "id = ?", like.ID)
			if res.Error != nil {
				return res.Error
			}
			liked = false
			if res.RowsAffected == 0 {
				// 已被并发的取消点赞删掉，计数由对方扣减
				return nil
			}
			return tx.Model(&domain.Post{}).
				Where("id = ? AND likes > 0", postID).
				UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error

		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&domain.Like{ID: utils.NewID(), PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
			return tx.Model(&domain.Post{}).
				Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error

		default:
			return err
		}
	})
	return liked, err
}

func (r *LikeRepo) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("like exists: %w", err)
	}
	return n > 0, nil
}

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

// Create 写评论并自增 comments 计数
func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePublished(tx, c.PostID); err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Post{}).
			Where("id = ?", c.PostID).
			UpdateColumn("comments", gorm.Expr("comments + ?", 1)).Error
	})
	return wrap(err, "create comment")
}

func (r *CommentRepo) ListByPost(ctx context.Context, postID string, offset, limit int) ([]domain.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("post_id = ?", postID).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	comments := make([]domain.Comment, 0, limit)
	if err := q.Order("created_at ASC").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}
