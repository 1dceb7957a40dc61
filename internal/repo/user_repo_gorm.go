package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/arpit00000/Blog-Devonate/internal/core/database"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("create user %s: %w", u.Email, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "find user")
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, wrap(err, "find user by email")
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	upd := map[string]any{"name": p.Name, "name_lc": strings.ToLower(p.Name)}
	if p.Bio != nil {
		upd["bio"] = *p.Bio
	}
	if p.Avatar != nil {
		upd["avatar"] = *p.Avatar
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(upd)
	if res.Error != nil {
		return nil, fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update profile: %w", domain.ErrNotFound)
	}
	return r.FindByID(ctx, id)
}

// List 管理端用户列表，附带文章数与已发布数
func (r *UserRepo) List(ctx context.Context, q string, withDeleted bool, offset, limit int) ([]domain.UserWithCounts, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if withDeleted {
		tx = tx.Unscoped()
	}
	if q != "" {
		like := containsPattern(q)
		// email 注册时已小写，name 用 Go 侧小写的副本
		tx = tx.Where("(users.email LIKE ? ESCAPE '!' OR users.name_lc LIKE ? ESCAPE '!')", like, like)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows := make([]domain.UserWithCounts, 0, limit)
	err := tx.Select(
		"users.*, "+
			"(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id) AS posts_count, "+
			"(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id AND posts.status = ?) AS published_count",
		domain.StatusPublished,
	).Order("users.created_at DESC").Offset(offset).Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return rows, total, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// SoftDelete 封禁：软删后无法登录，文章保留
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return fmt.Errorf("ban user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ban user: %w", domain.ErrNotFound)
	}
	return nil
}
