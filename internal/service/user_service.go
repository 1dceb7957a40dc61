package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Profile(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.FindByID(ctx, uid)
}

func (s *UserService) UpdateProfile(ctx context.Context, uid string, p domain.ProfileUpdate) (*domain.User, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	return s.users.UpdateProfile(ctx, uid, p)
}

type UserPage struct {
	Total int64                   `json:"total"`
	Items []domain.UserWithCounts `json:"items"`
}

func (s *UserService) List(ctx context.Context, q string, withDeleted bool, offset, limit int) (*UserPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.users.List(ctx, strings.TrimSpace(q), withDeleted, offset, limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Total: total, Items: items}, nil
}

// Ban 软删用户，之后无法登录
func (s *UserService) Ban(ctx context.Context, adminID, uid string) error {
	if adminID == uid {
		return fmt.Errorf("%w: cannot ban yourself", domain.ErrInvalidRequest)
	}
	if err := s.users.SoftDelete(ctx, uid); err != nil {
		return err
	}
	s.log.Info("user banned", zap.String("user_id", uid), zap.String("admin_id", adminID))
	return nil
}
