package storage

import (
	"context"
	"fmt"

	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 鍵值持久化介面，值為完整的 JSON 文件
type Store interface {
	// Get 讀取鍵值，found 為 false 代表不存在
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set 以整份覆寫的方式寫入鍵值
	Set(ctx context.Context, key, value string) error

	// Delete 刪除鍵值，不存在時不視為錯誤
	Delete(ctx context.Context, key string) error

	// Close 釋放底層資源
	Close() error
}

// NewStore 依設定建立對應的儲存驅動
func NewStore(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	common.LogInfo("初始化儲存",
		zap.String("driver", cfg.Driver),
	)

	switch cfg.Driver {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageFile:
		return NewFileStore(cfg.FilePath)
	case config.StorageRedis:
		return NewRedisStore(ctx, &cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
