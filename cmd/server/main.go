package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/seating-api-go/pkg/auth"
	"github.com/arnavshah/seating-api-go/pkg/cache"
	"github.com/arnavshah/seating-api-go/pkg/config"
	"github.com/arnavshah/seating-api-go/pkg/database"
	"github.com/arnavshah/seating-api-go/pkg/handlers"
	"github.com/arnavshah/seating-api-go/pkg/logger"
	"github.com/arnavshah/seating-api-go/pkg/seating"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg.Database, log)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	if err := auth.EnsureAdminExists(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, log); err != nil {
		log.Warn("ensure admin", zap.Error(err))
	}

	// redis is optional: without it results are not cached and keys are not rate limited
	var rdb *cache.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewClient(cfg.Redis, cfg.Optimizer.CacheTTL, log)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		}
	}
	defer rdb.Close()

	h := &handlers.Handler{
		DB:   db,
		Auth: auth.NewManager(cfg.Auth),
		Optimizer: seating.NewOptimizer(seating.Config{
			MaxPasses:  cfg.Optimizer.MaxPasses,
			TimeBudget: cfg.Optimizer.TimeBudget(),
		}, log),
		Cache:            rdb,
		Logger:           log,
		AdminUsername:    cfg.Auth.AdminUsername,
		AdminPassword:    cfg.Auth.AdminPassword,
		DefaultRateLimit: cfg.Auth.DefaultRateLimit,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handlers.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
