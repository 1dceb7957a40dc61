package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arpit00000/Blog-Devonate/internal/app"
	"github.com/arpit00000/Blog-Devonate/internal/core/config"
	"github.com/arpit00000/Blog-Devonate/internal/core/logger"
	"github.com/arpit00000/Blog-Devonate/internal/core/server"
	"github.com/arpit00000/Blog-Devonate/internal/job"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log)()
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	a, err := app.Bootstrap(cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Cache.Close()

	cr, err := job.Start(cfg.Jobs.ReconcileSpec, a.Posts, log)
	if err != nil {
		log.Fatal("cron start failed", zap.Error(err))
	}
	defer cr.Stop()

	r := router.NewAPIEngine(a.Deps(cfg), a.Registry())
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	srv.ErrorLog = logger.ToStdLogger(log, zapcore.ErrorLevel)

	log.Info("blog api starting",
		zap.String("env", cfg.App.Env),
		zap.String("addr", addr),
		zap.String("db", cfg.DB.Driver),
		zap.Bool("redis", cfg.Redis.Addr != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("blog api exited", zap.Error(err))
	}
}
