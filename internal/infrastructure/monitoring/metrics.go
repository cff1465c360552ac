package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP 指標
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ideas_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_ideas_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// MealDB 上游指標
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ideas_mealdb_requests_total",
			Help: "Total number of requests sent to TheMealDB",
		},
		[]string{"endpoint", "outcome"},
	)
	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_ideas_mealdb_request_duration_seconds",
			Help:    "TheMealDB request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// 快取指標
	cacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ideas_cache_operations_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"},
	)

	// 業務指標
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ideas_searches_total",
			Help: "Recipe searches by outcome",
		},
		[]string{"outcome"},
	)
	favoritesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_ideas_favorites",
			Help: "Number of favorited recipes",
		},
	)
)

// GinMiddleware 記錄 HTTP 請求次數與耗時
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 使用路由模板避免高基數
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler Prometheus 抓取端點
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// ObserveUpstream 記錄一次 MealDB 請求
func ObserveUpstream(endpoint string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	upstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveCache 記錄快取命中或未命中
func ObserveCache(hit bool) {
	if hit {
		cacheOperations.WithLabelValues("hit").Inc()
		return
	}
	cacheOperations.WithLabelValues("miss").Inc()
}

// ObserveSearch 記錄搜尋結果（success / error / validation / superseded）
func ObserveSearch(outcome string) {
	searchesTotal.WithLabelValues(outcome).Inc()
}

// SetFavorites 更新收藏數量
func SetFavorites(n int) {
	favoritesGauge.Set(float64(n))
}
