package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-ideas/internal/api"
	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/core/recipe"
	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/infrastructure/storage"
	"recipe-ideas/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLoggerWithFile(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("mealdb_base_url", cfg.MealDB.BaseURL),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// 初始化儲存
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.NewStore(startupCtx, &cfg.Storage)
	if err != nil {
		cancelStartup()
		common.LogFatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	// 初始化快取與 TheMealDB 客戶端
	cache := mealdb.NewResponseCache(&cfg.Cache)
	defer cache.Close()
	client := mealdb.NewClient(&cfg.MealDB, cache)

	// 初始化服務
	favorites, err := recipe.NewFavoritesService(startupCtx, store)
	cancelStartup()
	if err != nil {
		common.LogFatal("Failed to initialize favorites", zap.Error(err))
	}

	history := recipe.NewHistoryStore(store, cfg.Search.HistoryLimit)
	deps := api.Dependencies{
		Search:    recipe.NewSearchService(mealdb.NewResolver(client), client, history, &cfg.Search),
		Favorites: favorites,
		Meals:     recipe.NewMealService(client, favorites, cfg.Share.BaseURL),
		Cache:     cache,
		Store:     store,
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server",
				zap.Error(err),
			)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		return
	}

	common.LogInfo("Server exited")
}
