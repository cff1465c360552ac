package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/infrastructure/monitoring"
	"recipe-ideas/internal/infrastructure/storage"
	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
)

// FavoritesService 收藏管理，最新收藏排在最前面
type FavoritesService struct {
	store storage.Store
	now   func() time.Time

	mu        sync.RWMutex
	favorites []FavoriteRecipe
}

// NewFavoritesService 創建收藏服務並載入已儲存的收藏
func NewFavoritesService(ctx context.Context, store storage.Store) (*FavoritesService, error) {
	s := &FavoritesService{
		store:     store,
		now:       time.Now,
		favorites: []FavoriteRecipe{},
	}

	raw, found, err := store.Get(ctx, FavoritesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if found {
		var loaded []FavoriteRecipe
		if err := common.ParseJSON(raw, &loaded); err != nil {
			common.LogWarn("Favorites data is corrupt, starting empty",
				zap.Error(err),
			)
		} else if loaded != nil {
			s.favorites = loaded
		}
	}

	monitoring.SetFavorites(len(s.favorites))
	common.LogInfo("Favorites loaded",
		zap.Int("count", len(s.favorites)),
	)
	return s, nil
}

// List 取得所有收藏
func (s *FavoritesService) List() []FavoriteRecipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FavoriteRecipe{}, s.favorites...)
}

// Get 依 ID 取得收藏
func (s *FavoritesService) Get(id string) (FavoriteRecipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, fav := range s.favorites {
		if fav.ID == id {
			return fav, true
		}
	}
	return FavoriteRecipe{}, false
}

// IsFavorite 是否已收藏
func (s *FavoritesService) IsFavorite(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Add 加入或更新收藏並移到最前面
func (s *FavoritesService) Add(ctx context.Context, meal mealdb.MealSummary, details *mealdb.MealDetail) (FavoriteRecipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, meal, details)
}

// Remove 移除收藏，不存在時不做任何事
func (s *FavoritesService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, id)
}

// Toggle 已收藏則移除，否則加入，回傳切換後是否為收藏
func (s *FavoritesService) Toggle(ctx context.Context, meal mealdb.MealSummary, details *mealdb.MealDetail) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(meal.ID) >= 0 {
		if err := s.removeLocked(ctx, meal.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if _, err := s.addLocked(ctx, meal, details); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoritesService) indexLocked(id string) int {
	for i, fav := range s.favorites {
		if fav.ID == id {
			return i
		}
	}
	return -1
}

func (s *FavoritesService) addLocked(ctx context.Context, meal mealdb.MealSummary, details *mealdb.MealDetail) (FavoriteRecipe, error) {
	fav := FavoriteRecipe{
		ID:      meal.ID,
		Meal:    meal,
		Details: details,
		SavedAt: common.NowMillis(s.now()),
	}

	next := make([]FavoriteRecipe, 0, len(s.favorites)+1)
	next = append(next, fav)
	for _, existing := range s.favorites {
		if existing.ID != meal.ID {
			next = append(next, existing)
		}
	}

	if err := s.commit(ctx, next); err != nil {
		return FavoriteRecipe{}, err
	}
	return fav, nil
}

func (s *FavoritesService) removeLocked(ctx context.Context, id string) error {
	if s.indexLocked(id) < 0 {
		return nil
	}
	next := make([]FavoriteRecipe, 0, len(s.favorites))
	for _, existing := range s.favorites {
		if existing.ID != id {
			next = append(next, existing)
		}
	}
	return s.commit(ctx, next)
}

// Export 匯出收藏，回傳 JSON 內容與下載檔名
func (s *FavoritesService) Export() ([]byte, string, error) {
	now := s.now()
	doc := FavoritesExport{
		Favorites:  s.List(),
		ExportedAt: common.ISOTimestamp(now),
		Version:    ExportVersion,
	}

	data, err := common.ToPrettyJSON(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode favorites export: %w", err)
	}
	return data, fmt.Sprintf("recipe-favorites-%s.json", common.ISODate(now)), nil
}

// Import 以匯出檔整批取代收藏，格式錯誤時收藏不變
func (s *FavoritesService) Import(ctx context.Context, contents []byte) ([]FavoriteRecipe, error) {
	var doc struct {
		Favorites json.RawMessage `json:"favorites"`
	}
	if err := common.ParseJSONBytes(contents, &doc); err != nil {
		return nil, common.ErrInvalidFavoritesFile.Wrap(err)
	}
	if !common.IsJSONArray(doc.Favorites) {
		return nil, common.ErrInvalidFavoritesFile.Wrap(fmt.Errorf("favorites must be an array"))
	}

	var imported []FavoriteRecipe
	if err := common.ParseJSONBytes(doc.Favorites, &imported); err != nil {
		return nil, common.ErrInvalidFavoritesFile.Wrap(err)
	}

	next := make([]FavoriteRecipe, 0, len(imported))
	seen := make(map[string]struct{}, len(imported))
	for _, fav := range imported {
		if fav.ID == "" {
			fav.ID = fav.Meal.ID
		}
		if fav.ID == "" {
			continue
		}
		if _, dup := seen[fav.ID]; dup {
			continue
		}
		seen[fav.ID] = struct{}{}
		next = append(next, fav)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	common.LogInfo("Favorites imported",
		zap.Int("count", len(next)),
	)
	return append([]FavoriteRecipe{}, next...), nil
}

// commit 先寫入儲存再替換記憶體中的收藏，呼叫端需持有寫鎖
func (s *FavoritesService) commit(ctx context.Context, next []FavoriteRecipe) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.store.Set(ctx, FavoritesKey, string(data)); err != nil {
		common.LogError("Failed to persist favorites",
			zap.Error(err),
		)
		return common.ErrStorageFailure.Wrap(err)
	}

	s.favorites = next
	monitoring.SetFavorites(len(next))
	return nil
}
