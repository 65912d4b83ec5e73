package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/seating-api-go/pkg/middleware"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// NewRouter wires every route; it is shared by the server binary and the
// serverless entry point.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(h.Logger), gin.Recovery())

	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Seating Optimizer API",
			"version": Version,
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware(), middleware.RateLimit(h.Cache, h.Logger))
	{
		api.POST("/optimize", h.OptimizeJSON)
		api.POST("/optimize/csv", h.OptimizeCSV)
		api.POST("/optimize/xlsx", h.OptimizeXLSX)
		api.POST("/score", h.Score)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
		api.GET("/runs", h.ListRuns)
	}

	return r
}
