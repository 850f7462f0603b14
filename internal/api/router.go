package api

import (
	"time"

	"snap-pantry/internal/api/handlers"
	"snap-pantry/internal/api/handlers/health"
	"snap-pantry/internal/api/middleware"
	"snap-pantry/internal/infrastructure/config"
	"snap-pantry/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, h *handlers.Handler, hc *health.Handler) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidators()

	router := gin.New()

	// 註冊基礎中間件
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 健康檢查路由
	router.GET("/health", hc.HealthCheck)
	router.GET("/ready", hc.ReadinessCheck)
	router.GET("/live", hc.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.Server.MaxBodyBytes > 0 {
		api.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Handler())
	}
	if cfg.Server.RequestTimeout > 0 {
		api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}
	{
		api.POST("/capture/analyze", h.AnalyzeCapture)
		api.POST("/expiration/predict", h.PredictExpiration)

		pantryGroup := api.Group("/pantry")
		{
			pantryGroup.GET("", h.ListPantry)
			pantryGroup.POST("", h.AddPantryItem)
			pantryGroup.DELETE("/:id", h.DeletePantryItem)
		}

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", h.ListRecipes)
			recipeGroup.POST("/generate", h.GenerateRecipes)
		}
	}

	common.LogInfo("Router setup completed",
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
