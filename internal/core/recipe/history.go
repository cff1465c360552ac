package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"recipe-ideas/internal/infrastructure/storage"
	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultHistoryLimit 預設保留的搜尋紀錄筆數
const DefaultHistoryLimit = 5

// HistoryStore 搜尋紀錄，最新的在最前面
type HistoryStore struct {
	store storage.Store
	limit int
	mu    sync.Mutex
}

// NewHistoryStore 創建搜尋紀錄
func NewHistoryStore(store storage.Store, limit int) *HistoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryStore{
		store: store,
		limit: limit,
	}
}

// List 讀取搜尋紀錄，資料毀損時視為空
func (h *HistoryStore) List(ctx context.Context) ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// Record 將搜尋加入紀錄最前面並截斷至上限
func (h *HistoryStore) Record(ctx context.Context, entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	history, err := h.load(ctx)
	if err != nil {
		return err
	}

	updated := make([]HistoryEntry, 0, h.limit)
	updated = append(updated, entry)
	for _, e := range history {
		if len(updated) >= h.limit {
			break
		}
		updated = append(updated, e)
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode search history: %w", err)
	}
	if err := h.store.Set(ctx, HistoryKey, string(data)); err != nil {
		return common.ErrStorageFailure.Wrap(err)
	}
	return nil
}

// Clear 清除搜尋紀錄
func (h *HistoryStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(ctx, HistoryKey); err != nil {
		return common.ErrStorageFailure.Wrap(err)
	}
	return nil
}

func (h *HistoryStore) load(ctx context.Context) ([]HistoryEntry, error) {
	raw, found, err := h.store.Get(ctx, HistoryKey)
	if err != nil {
		return nil, common.ErrStorageFailure.Wrap(err)
	}
	if !found {
		return []HistoryEntry{}, nil
	}

	var history []HistoryEntry
	if err := common.ParseJSON(raw, &history); err != nil {
		common.LogWarn("Search history is corrupt, starting empty",
			zap.Error(err),
		)
		return []HistoryEntry{}, nil
	}
	if history == nil {
		history = []HistoryEntry{}
	}
	return history, nil
}
