package api

import (
	"fmt"
	"time"

	"recipe-ideas/internal/api/handlers/health"
	recipeHandler "recipe-ideas/internal/api/handlers/recipe"
	"recipe-ideas/internal/api/middleware"
	"recipe-ideas/internal/core/mealdb"
	recipeService "recipe-ideas/internal/core/recipe"
	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/infrastructure/monitoring"
	"recipe-ideas/internal/infrastructure/storage"
	"recipe-ideas/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Search    *recipeService.SearchService
	Favorites *recipeService.FavoritesService
	Meals     *recipeService.MealService
	Cache     *mealdb.ResponseCache
	Store     storage.Store
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if deps.Search == nil || deps.Favorites == nil || deps.Meals == nil || deps.Store == nil {
		common.LogError("Failed to setup router: service missing",
			zap.Bool("search_service_initialized", deps.Search != nil),
			zap.Bool("favorites_service_initialized", deps.Favorites != nil),
			zap.Bool("meal_service_initialized", deps.Meals != nil),
			zap.Bool("storage_initialized", deps.Store != nil),
		)
		return nil, fmt.Errorf("failed to setup router: service missing")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.RequestContext())
	router.Use(middleware.Logger())
	router.Use(monitoring.GinMiddleware())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制與超時
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查與監控路由
	healthHandler := health.NewHandler(cfg, deps.Cache, deps.Store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", monitoring.Handler())

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(&cfg.RateLimit), cfg.RateLimit.Window))
	}

	h := recipeHandler.NewHandler(deps.Search, deps.Favorites, deps.Meals, cfg.App.Debug)

	// 搜尋
	searchGroup := api.Group("/search")
	{
		searchGroup.GET("", h.GetSearchState)
		searchGroup.POST("", h.Search)
		searchGroup.DELETE("", h.ClearSearch)
		searchGroup.POST("/ingredients", h.AddIngredient)
		searchGroup.DELETE("/ingredients/:name", h.RemoveIngredient)
		searchGroup.PATCH("/filters", h.UpdateFilters)
		searchGroup.GET("/history", h.GetHistory)
		searchGroup.DELETE("/history", h.ClearHistory)
	}

	// 食譜詳細資料
	mealGroup := api.Group("/meals")
	{
		mealGroup.GET("/:id", h.GetMeal)
		mealGroup.GET("/:id/export", h.ExportMeal)
		mealGroup.GET("/:id/share", h.ShareMeal)
	}

	// 收藏
	favoriteGroup := api.Group("/favorites")
	{
		favoriteGroup.GET("", h.ListFavorites)
		favoriteGroup.POST("", h.AddFavorite)
		favoriteGroup.POST("/toggle", h.ToggleFavorite)
		favoriteGroup.GET("/export", h.ExportFavorites)
		// 匯入會整批取代收藏，只對這個路由做重複提交去重
		favoriteGroup.POST("/import", middleware.Deduplication(cfg.DedupWindow), h.ImportFavorites)
		favoriteGroup.GET("/:id", h.GetFavorite)
		favoriteGroup.DELETE("/:id", h.RemoveFavorite)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(common.ErrNotFound.Status, common.ErrNotFound.Response(c.Request.URL.Path))
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
