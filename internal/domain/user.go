package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string         `gorm:"size:64;not null" json:"name"`
	PasswordHash string         `gorm:"size:100;not null" json:"-"`
	Role         string         `gorm:"size:16;not null;default:user" json:"role"` // "user"/"admin"
	Bio          string         `gorm:"size:500" json:"bio,omitempty"`
	Avatar       string         `gorm:"size:500" json:"avatar,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	NameLC string `gorm:"column:name_lc;size:64;not null;default:''" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	u.NameLC = strings.ToLower(u.Name)
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ProfileUpdate 仅允许修改的资料字段；nil 表示不改
type ProfileUpdate struct {
	Name   string
	Bio    *string
	Avatar *string
}

// UserWithCounts 管理端用户列表行
type UserWithCounts struct {
	User
	PostsCount     int64 `json:"postsCount"`
	PublishedCount int64 `json:"publishedCount"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error)
	List(ctx context.Context, q string, withDeleted bool, offset, limit int) ([]UserWithCounts, int64, error)
	Count(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id string) error
}
