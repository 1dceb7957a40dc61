package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arpit00000/Blog-Devonate/internal/core/cache"
	"github.com/arpit00000/Blog-Devonate/internal/core/config"
	"github.com/arpit00000/Blog-Devonate/internal/core/database"
)

// Bootstrap 打开数据库、按需迁移、连接 redis，组装服务
func Bootstrap(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                log,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("automigrate done")
	}

	c := cache.Noop()
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			// redis 不可用不阻止启动，健康检查会报告
			log.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}
	return New(cfg, db, c, log), nil
}
