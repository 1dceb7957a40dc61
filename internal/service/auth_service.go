package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/core/auth"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: log}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AuthService) newUser(in SignupInput, role string) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidRequest)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{ID: utils.NewID(), Email: email, Name: name, PasswordHash: hash, Role: role}, nil
}

// Signup 自助注册一律是普通用户
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	u, err := s.newUser(in, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user signed up", zap.String("user_id", u.ID))
	return s.issue(u)
}

// Login 用户不存在、已封禁或密码错误统一返回 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(u)
}

// CreateAdmin 运维侧开管理员账号，不经过 HTTP
func (s *AuthService) CreateAdmin(ctx context.Context, in SignupInput) (*domain.User, error) {
	u, err := s.newUser(in, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("admin provisioned", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *AuthService) issue(u *domain.User) (*Session, error) {
	tok, err := s.jwt.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: tok, User: u}, nil
}
