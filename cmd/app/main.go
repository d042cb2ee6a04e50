package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/bootstrap"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl := logger.NewLogger(cfg.Log.Level)
	defer zl.Sync()

	if cfg.Auth.JWTSecret == "" {
		zl.Fatal("auth.jwt_secret must be set")
	}
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("bootstrap failed", "error", err)
	}
	defer app.Close()

	router := bootstrap.NewRouter(cfg, zl, app.Metrics, nil, app.Handlers(), app.HealthChecks()...)
	if err := bootstrap.Run(ctx, cfg, zl, router); err != nil {
		zl.Error("server error", "error", err)
	}
}
