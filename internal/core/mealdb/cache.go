package mealdb

import (
	"sync"
	"time"

	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/infrastructure/monitoring"
	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
)

// ResponseCache MealDB 回應快取
type ResponseCache struct {
	config *config.CacheConfig
	mu     sync.Mutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
	once   sync.Once
	now    func() time.Time
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       []byte
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewResponseCache 創建回應快取，未啟用時回傳 nil
func NewResponseCache(cfg *config.CacheConfig) *ResponseCache {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	c := &ResponseCache{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
		now:    time.Now,
	}

	// 啟動清理過期緩存的協程
	go c.startCleanup()

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return c
}

// Get 獲取緩存值
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		c.stats.misses++
		monitoring.ObserveCache(false)
		common.LogCacheMiss("mealdb", key)
		return nil, false
	}

	// 檢查是否過期
	now := c.now()
	if now.After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		c.stats.misses++
		monitoring.ObserveCache(false)
		return nil, false
	}

	// 更新訪問統計
	entry.lastAccess = now
	entry.accessCount++
	c.store[key] = entry
	c.stats.hits++
	monitoring.ObserveCache(true)
	common.LogCacheHit("mealdb", key)

	return entry.value, true
}

// Set 設置緩存值，容量已滿時先清理過期項目再淘汰最少使用者
func (c *ResponseCache) Set(key string, value []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.config.MaxSize {
		c.cleanup()
		for len(c.store) >= c.config.MaxSize {
			c.evictLRU()
		}
	}

	now := c.now()
	c.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(c.config.TTL),
		lastAccess: now,
	}
}

// Len 目前快取數量
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// startCleanup 定期清理過期緩存
func (c *ResponseCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.cleanup()
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// cleanup 清理過期的緩存，呼叫端需持有鎖
func (c *ResponseCache) cleanup() int {
	now := c.now()
	count := 0

	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
			c.stats.evictions++
		}
	}

	if count > 0 {
		common.LogDebug("Cleaned up expired cache entries",
			zap.Int("count", count),
			zap.Int64("total_evictions", c.stats.evictions),
			zap.Int("remaining_size", len(c.store)),
		)
	}

	return count
}

// evictLRU 淘汰訪問次數最少、最久未使用的項目，呼叫端需持有鎖
func (c *ResponseCache) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// GetStats 獲取緩存統計信息
func (c *ResponseCache) GetStats() map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"enabled": false}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ratio := 0.0
	if total := c.stats.hits + c.stats.misses; total > 0 {
		ratio = float64(c.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"enabled":   true,
		"size":      len(c.store),
		"max_size":  c.config.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 停止清理協程並清空快取
func (c *ResponseCache) Close() error {
	if c == nil {
		return nil
	}

	c.once.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", c.stats.hits),
		zap.Int64("未命中次數", c.stats.misses),
		zap.Int64("淘汰次數", c.stats.evictions),
	)
	return nil
}
