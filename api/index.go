package handler

import (
	"net/http"

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

var r http.Handler

func init() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg.Database, log)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	var rdb *cache.Client
	if cfg.Redis.Addr != "" {
		if rdb, err = cache.NewClient(cfg.Redis, cfg.Optimizer.CacheTTL, log); err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		}
	}

	// the admin user is created lazily by the /admin page on cold starts
	r = handlers.NewRouter(&handlers.Handler{
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
	})
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
