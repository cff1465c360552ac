package recipe

import (
	"context"
	"sync"
	"time"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/infrastructure/monitoring"
	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
)

// MultiIngredientSearcher 多食材搜尋
type MultiIngredientSearcher interface {
	SearchByMultipleIngredients(ctx context.Context, ingredients []string) ([]mealdb.MealSummary, error)
}

// MealLookup 依 ID 查詢完整菜色
type MealLookup interface {
	GetMealDetails(ctx context.Context, id string) (*mealdb.MealDetail, error)
}

// errNoIngredients 未加入任何食材時的搜尋錯誤
var errNoIngredients = common.NewValidationError("Please add at least one ingredient to search.")

// SearchService 搜尋狀態控制器
type SearchService struct {
	searcher    MultiIngredientSearcher
	lookup      MealLookup
	history     *HistoryStore
	concurrency int
	now         func() time.Time

	mu    sync.Mutex
	state SearchState
	token uint64
}

// NewSearchService 創建搜尋服務
func NewSearchService(searcher MultiIngredientSearcher, lookup MealLookup, history *HistoryStore, cfg *config.SearchConfig) *SearchService {
	return &SearchService{
		searcher:    searcher,
		lookup:      lookup,
		history:     history,
		concurrency: cfg.DetailConcurrency,
		now:         time.Now,
		state:       initialState(),
	}
}

func initialState() SearchState {
	return SearchState{
		Ingredients: []string{},
		Filters:     SearchFilters{ExcludeIngredients: []string{}},
		Results:     []mealdb.MealSummary{},
		Status:      StatusIdle,
	}
}

// State 取得目前狀態的副本
func (s *SearchService) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot 複製狀態，呼叫端需持有鎖
func (s *SearchService) snapshot() SearchState {
	st := s.state
	st.Ingredients = append([]string{}, s.state.Ingredients...)
	st.Filters.ExcludeIngredients = append([]string{}, s.state.Filters.ExcludeIngredients...)
	st.Results = append([]mealdb.MealSummary{}, s.state.Results...)
	return st
}

// AddIngredient 加入食材，空白或重複的輸入不做任何事
func (s *SearchService) AddIngredient(raw string) SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addLocked(raw)
	return s.snapshot()
}

// AddIngredients 以逗號或換行分隔加入多個食材
func (s *SearchService) AddIngredients(text string) SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ing := range common.ParseIngredientList(text) {
		s.addLocked(ing)
	}
	return s.snapshot()
}

func (s *SearchService) addLocked(raw string) {
	ing := common.NormalizeIngredient(raw)
	if ing == "" || common.StringSliceContains(s.state.Ingredients, ing) {
		return
	}
	s.state.Ingredients = append(s.state.Ingredients, ing)
}

// RemoveIngredient 移除完全相符的食材
func (s *SearchService) RemoveIngredient(name string) SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]string, 0, len(s.state.Ingredients))
	for _, ing := range s.state.Ingredients {
		if ing != name {
			kept = append(kept, ing)
		}
	}
	s.state.Ingredients = kept
	return s.snapshot()
}

// UpdateFilters 合併部分過濾條件，不合法時狀態不變
func (s *SearchService) UpdateFilters(patch FilterPatch) (SearchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := patch.Apply(s.state.Filters)
	if err := ValidateFilters(merged); err != nil {
		return s.snapshot(), err
	}
	s.state.Filters = merged
	return s.snapshot(), nil
}

// Search 以目前食材與條件搜尋
//
// 每次搜尋取得遞增的序號，完成時若已有較新的搜尋或清除，結果會被捨棄並回傳 ErrSearchSuperseded。
func (s *SearchService) Search(ctx context.Context) (SearchState, error) {
	s.mu.Lock()
	if len(s.state.Ingredients) == 0 {
		st := s.snapshot()
		s.mu.Unlock()
		monitoring.ObserveSearch("validation")
		return st, errNoIngredients
	}

	s.token++
	token := s.token
	ingredients := append([]string{}, s.state.Ingredients...)
	filters := s.state.Filters
	s.state.IsLoading = true
	s.state.Error = ""
	s.state.Status = StatusLoading
	s.mu.Unlock()

	start := time.Now()
	results, err := s.run(ctx, ingredients, filters)

	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		monitoring.ObserveSearch("superseded")
		common.LogInfo("Discarding superseded search result",
			zap.Strings("ingredients", ingredients),
			zap.Uint64("token", token),
		)
		return s.State(), common.ErrSearchSuperseded
	}

	s.state.IsLoading = false
	s.state.HasSearched = true
	if err != nil {
		s.state.Status = StatusError
		s.state.Error = common.UserMessage(err)
		st := s.snapshot()
		s.mu.Unlock()

		monitoring.ObserveSearch("error")
		common.LogError("Recipe search failed",
			zap.Strings("ingredients", ingredients),
			zap.Error(err),
		)
		return st, err
	}

	s.state.Status = StatusSuccess
	s.state.Results = results
	st := s.snapshot()
	s.mu.Unlock()

	monitoring.ObserveSearch("success")
	common.LogInfo("Recipe search completed",
		zap.Strings("ingredients", ingredients),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)

	if s.history != nil {
		entry := HistoryEntry{Ingredients: ingredients, Timestamp: common.NowMillis(s.now())}
		if err := s.history.Record(ctx, entry); err != nil {
			common.LogWarn("Failed to record search history", zap.Error(err))
		}
	}
	return st, nil
}

// run 執行搜尋與過濾
func (s *SearchService) run(ctx context.Context, ingredients []string, filters SearchFilters) ([]mealdb.MealSummary, error) {
	results, err := s.searcher.SearchByMultipleIngredients(ctx, ingredients)
	if err != nil {
		return nil, err
	}

	if filters.Mood != "" {
		results = FilterByMood(results, filters.Mood)
	}
	if filters.TimeLimit > 0 {
		results, err = FilterByTime(ctx, s.lookup, results, filters.TimeLimit, s.concurrency)
		if err != nil {
			return nil, err
		}
	}
	if results == nil {
		results = []mealdb.MealSummary{}
	}
	return results, nil
}

// ClearSearch 重設為初始狀態並使進行中的搜尋失效
func (s *SearchService) ClearSearch() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token++
	s.state = initialState()
	return s.snapshot()
}

// History 取得搜尋紀錄
func (s *SearchService) History(ctx context.Context) ([]HistoryEntry, error) {
	if s.history == nil {
		return []HistoryEntry{}, nil
	}
	return s.history.List(ctx)
}

// ClearHistory 清除搜尋紀錄
func (s *SearchService) ClearHistory(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Clear(ctx)
}
