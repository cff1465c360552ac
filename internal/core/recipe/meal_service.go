package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
)

// MealView 食譜詳細頁資料
type MealView struct {
	Meal             mealdb.MealDetail            `json:"meal"`
	Ingredients      []mealdb.ProcessedIngredient `json:"ingredients"`
	EstimatedMinutes int                          `json:"estimatedMinutes"`
	EstimatedTime    string                       `json:"estimatedTime"`
	IsFavorite       bool                         `json:"isFavorite"`
}

// MealService 食譜詳細資料、匯出與分享
type MealService struct {
	lookup       MealLookup
	favorites    *FavoritesService
	shareBaseURL string
	now          func() time.Time
}

// NewMealService 創建食譜服務，favorites 可為 nil
func NewMealService(lookup MealLookup, favorites *FavoritesService, shareBaseURL string) *MealService {
	return &MealService{
		lookup:       lookup,
		favorites:    favorites,
		shareBaseURL: shareBaseURL,
		now:          time.Now,
	}
}

// Details 取得食譜詳細資料，查無資料時回傳 ErrMealNotFound
func (s *MealService) Details(ctx context.Context, id string) (*MealView, error) {
	detail, err := s.detail(ctx, id)
	if err != nil {
		return nil, err
	}

	minutes := mealdb.EstimateCookingTime(detail.Category, detail.Area)
	view := &MealView{
		Meal:             *detail,
		Ingredients:      mealdb.ProcessIngredients(detail),
		EstimatedMinutes: minutes,
		EstimatedTime:    common.FormatDuration(minutes),
	}
	if s.favorites != nil {
		view.IsFavorite = s.favorites.IsFavorite(detail.ID)
	}
	return view, nil
}

// Export 匯出單一食譜，回傳 JSON 內容與下載檔名
func (s *MealService) Export(ctx context.Context, id string) ([]byte, string, error) {
	detail, err := s.detail(ctx, id)
	if err != nil {
		return nil, "", err
	}

	doc := NewRecipeExport(detail.Summary(), detail, s.now())
	data, err := common.ToPrettyJSON(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode recipe export: %w", err)
	}
	return data, RecipeFilename(detail.Name), nil
}

// Share 建立分享資訊
func (s *MealService) Share(ctx context.Context, id string) (ShareLink, error) {
	detail, err := s.detail(ctx, id)
	if err != nil {
		return ShareLink{}, err
	}
	return NewShareLink(detail.Summary(), s.shareBaseURL), nil
}

func (s *MealService) detail(ctx context.Context, id string) (*mealdb.MealDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, common.NewValidationError("Recipe id is required.")
	}

	detail, err := s.lookup.GetMealDetails(ctx, id)
	if err != nil {
		common.LogError("Failed to load recipe details",
			zap.String("meal_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	if detail == nil {
		return nil, common.ErrMealNotFound
	}
	return detail, nil
}
