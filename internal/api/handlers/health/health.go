package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/infrastructure/storage"
	"recipe-ideas/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readinessKey 就緒檢查時讀取的鍵
const readinessKey = "__readiness__"

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Storage   string                 `json:"storage"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg   *config.Config
	cache *mealdb.ResponseCache
	store storage.Store
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, cache *mealdb.ResponseCache, store storage.Store) *Handler {
	return &Handler{
		cfg:   cfg,
		cache: cache,
		store: store,
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Storage:   h.cfg.Storage.Driver,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Cache: h.cache.GetStats(),
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查，儲存無法讀取時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if _, _, err := h.store.Get(ctx, readinessKey); err != nil {
		common.LogWarn("Storage not ready",
			zap.String("driver", h.cfg.Storage.Driver),
			zap.Error(err),
		)
		c.JSON(common.ErrServiceUnavailable.Status, common.ErrServiceUnavailable.Response("storage "+h.cfg.Storage.Driver+" not ready"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"storage": h.cfg.Storage.Driver,
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
