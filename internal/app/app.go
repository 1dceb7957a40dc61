// Package app 组装仓储、服务与 HTTP 模块，两个二进制共用
package app

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arpit00000/Blog-Devonate/internal/core/auth"
	"github.com/arpit00000/Blog-Devonate/internal/core/cache"
	"github.com/arpit00000/Blog-Devonate/internal/core/config"
	"github.com/arpit00000/Blog-Devonate/internal/feature/moderation"
	"github.com/arpit00000/Blog-Devonate/internal/repo"
	"github.com/arpit00000/Blog-Devonate/internal/service"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/handler"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/router"
)

type App struct {
	DB    *gorm.DB
	Cache *cache.Cache
	JWT   *auth.JWTer
	Log   *zap.Logger

	Posts *repo.PostRepo

	Auth       *service.AuthService
	Users      *service.UserService
	PostSvc    *service.PostService
	Moderation *service.ModerationService
	Engagement *service.EngagementService
	Discovery  *service.DiscoveryService
	Stats      *service.StatsService
}

// New c 可为 nil，表示不启用缓存
func New(cfg *config.Config, db *gorm.DB, c *cache.Cache, log *zap.Logger) *App {
	if c == nil {
		c = cache.Noop()
	}
	jwter := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}
	users := repo.NewUserRepo(db)
	posts := repo.NewPostRepo(db)
	likes := repo.NewLikeRepo(db)
	comments := repo.NewCommentRepo(db)
	scorer := moderation.LengthScorer{MaxChars: cfg.Moderation.AutoApproveMaxChars}

	return &App{
		DB:    db,
		Cache: c,
		JWT:   jwter,
		Log:   log,
		Posts: posts,

		Auth:       service.NewAuthService(users, jwter, log),
		Users:      service.NewUserService(users, log),
		PostSvc:    service.NewPostService(posts, users, scorer, c, log),
		Moderation: service.NewModerationService(posts, c, log),
		Engagement: service.NewEngagementService(likes, posts, comments, users, log),
		Discovery:  service.NewDiscoveryService(posts, c, cfg.Search, cfg.Trending, log),
		Stats:      service.NewStatsService(users, posts),
	}
}

func (a *App) Registry() *router.Registry {
	return router.NewRegistry(
		handler.AccountModule{Auth: a.Auth, Users: a.Users, Posts: a.PostSvc},
		handler.PostModule{Posts: a.PostSvc, Engagement: a.Engagement},
		handler.DiscoveryModule{Discovery: a.Discovery},
		handler.AdminModule{Moderation: a.Moderation, Users: a.Users, Stats: a.Stats},
	)
}

// Health DB 必须可用；redis 配置了才检查
func (a *App) Health(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return errors.Join(sqlDB.PingContext(ctx), a.Cache.Ping(ctx))
}

func (a *App) Deps(cfg *config.Config) router.Deps {
	mode := ""
	if cfg.App.Env == "prod" {
		mode = "release"
	}
	return router.Deps{Log: a.Log, JWT: a.JWT, Limits: cfg.Limits, Mode: mode, Health: a.Health}
}
