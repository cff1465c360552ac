package common

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

type requestIDKey struct{}

// WithRequestID 將請求 ID 放入 context，供下游日誌使用
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext 取得 context 中的請求 ID
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NowMillis 取得 Unix 毫秒時間戳
func NowMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// ISODate 取得 UTC 日期字串（YYYY-MM-DD）
func ISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ISOTimestamp 取得 UTC ISO-8601 時間字串（毫秒精度）
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// FormatDuration 將分鐘數格式化為易讀字串
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin", minutes)
	}
	hours := minutes / 60
	remaining := minutes % 60
	if remaining == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, remaining)
}
