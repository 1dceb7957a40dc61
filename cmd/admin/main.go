package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arpit00000/Blog-Devonate/internal/app"
	"github.com/arpit00000/Blog-Devonate/internal/core/config"
	"github.com/arpit00000/Blog-Devonate/internal/core/logger"
	"github.com/arpit00000/Blog-Devonate/internal/core/server"
	"github.com/arpit00000/Blog-Devonate/internal/service"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:          "blog-admin",
		Short:        "Run the moderation API (admin role only)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "config file path")

	var in service.SignupInput
	createCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(cfgPath, in)
		},
	}
	createCmd.Flags().StringVar(&in.Name, "name", "admin", "display name")
	createCmd.Flags().StringVar(&in.Email, "email", "", "login email")
	createCmd.Flags().StringVar(&in.Password, "password", os.Getenv("ADMIN_PASSWORD"), "password, defaults to $ADMIN_PASSWORD")
	_ = createCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cfgPath string) (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	undo := logger.RedirectStdLog(log)
	return cfg, log.With(zap.String("server", "admin")), func() { undo(); cleanup() }, nil
}

func serve(cfgPath string) error {
	cfg, log, cleanup, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer cleanup()
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	a, err := app.Bootstrap(cfg, log)
	if err != nil {
		log.Error("bootstrap failed", zap.Error(err))
		return err
	}
	defer a.Cache.Close()

	r := router.NewAdminEngine(a.Deps(cfg), a.Registry())
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	srv.ErrorLog = logger.ToStdLogger(log, zapcore.ErrorLevel)
	log.Info("blog admin starting", zap.String("env", cfg.App.Env), zap.String("addr", addr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, srv, log, 10*time.Second)
}

// createAdmin 管理员只能从命令行创建，HTTP 注册一律是普通用户
func createAdmin(cfgPath string, in service.SignupInput) error {
	if in.Password == "" {
		return errors.New("password is required (--password or $ADMIN_PASSWORD)")
	}
	cfg, log, cleanup, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer cleanup()

	a, err := app.Bootstrap(cfg, log)
	if err != nil {
		return err
	}
	defer a.Cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	u, err := a.Auth.CreateAdmin(ctx, in)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("admin created", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return nil
}
