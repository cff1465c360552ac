package recipe

import (
	"recipe-ideas/internal/core/mealdb"
)

// SearchStatus 搜尋狀態
type SearchStatus string

const (
	StatusIdle    SearchStatus = "idle"
	StatusLoading SearchStatus = "loading"
	StatusSuccess SearchStatus = "success"
	StatusError   SearchStatus = "error"
)

// SearchFilters 搜尋過濾條件，Mood 為空或 TimeLimit 為 0 代表不過濾
type SearchFilters struct {
	Mood               string   `json:"mood,omitempty"`
	TimeLimit          int      `json:"timeLimit,omitempty"`
	ExcludeIngredients []string `json:"excludeIngredients"`
}

// FilterPatch 部分更新過濾條件，nil 欄位維持原值
type FilterPatch struct {
	Mood               *string   `json:"mood"`
	TimeLimit          *int      `json:"timeLimit"`
	ExcludeIngredients *[]string `json:"excludeIngredients"`
}

// SearchState 搜尋控制器的完整狀態
type SearchState struct {
	Ingredients []string             `json:"ingredients"`
	Filters     SearchFilters        `json:"filters"`
	Results     []mealdb.MealSummary `json:"results"`
	IsLoading   bool                 `json:"isLoading"`
	Error       string               `json:"error,omitempty"`
	HasSearched bool                 `json:"hasSearched"`
	Status      SearchStatus         `json:"status"`
}

// HistoryEntry 搜尋紀錄
type HistoryEntry struct {
	Ingredients []string `json:"ingredients"`
	Timestamp   int64    `json:"timestamp"` // unix 毫秒
}

// FavoriteRecipe 收藏的食譜
type FavoriteRecipe struct {
	ID      string             `json:"id"`
	Meal    mealdb.MealSummary `json:"meal"`
	Details *mealdb.MealDetail `json:"details,omitempty"`
	SavedAt int64              `json:"savedAt"` // unix 毫秒
}

// FavoritesExport 收藏匯出檔
type FavoritesExport struct {
	Favorites  []FavoriteRecipe `json:"favorites"`
	ExportedAt string           `json:"exportedAt"`
	Version    string           `json:"version"`
}

// ExportedRecipe 單一食譜匯出內容
type ExportedRecipe struct {
	ID           string                       `json:"id"`
	Name         string                       `json:"name"`
	Category     string                       `json:"category"`
	Area         string                       `json:"area"`
	Instructions string                       `json:"instructions"`
	Ingredients  []mealdb.ProcessedIngredient `json:"ingredients"`
	Image        string                       `json:"image"`
	Source       string                       `json:"source,omitempty"`
	Youtube      string                       `json:"youtube,omitempty"`
	Tags         []string                     `json:"tags,omitempty"`
}

// RecipeExport 單一食譜匯出檔
type RecipeExport struct {
	Recipe     ExportedRecipe `json:"recipe"`
	ExportedAt string         `json:"exportedAt"`
}

// ShareLink 分享資訊
type ShareLink struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	URL       string `json:"url"`
	Clipboard string `json:"clipboard"`
}

// 儲存鍵
const (
	FavoritesKey = "recipeFavorites"
	HistoryKey   = "recipeSearchHistory"
)

// ExportVersion 收藏匯出格式版本
const ExportVersion = "1.0"
