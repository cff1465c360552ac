package recipe

import (
	"context"
	"fmt"
	"strings"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 支援的心情
const (
	MoodQuick     = "quick"
	MoodComfort   = "comfort"
	MoodHealthy   = "healthy"
	MoodVegan     = "vegan"
	MoodLowCarb   = "low-carb"
	MoodIndulgent = "indulgent"
)

// ValidMoods 可接受的心情
var ValidMoods = []string{MoodQuick, MoodComfort, MoodHealthy, MoodVegan, MoodLowCarb, MoodIndulgent}

// ValidTimeLimits 可接受的時間上限（分鐘）
var ValidTimeLimits = []int{15, 30, 60, 120}

// moodKeywords 菜名需包含其中之一
var moodKeywords = map[string][]string{
	MoodQuick:   {"pasta", "salad", "sandwich"},
	MoodComfort: {"soup", "stew", "casserole"},
	MoodHealthy: {"salad", "grilled", "steamed"},
}

// moodExclusions 菜名不可包含任何一個
var moodExclusions = map[string][]string{
	MoodVegan: {"chicken", "beef", "pork", "fish"},
}

// ValidateFilters 檢查過濾條件
func ValidateFilters(f SearchFilters) error {
	if f.Mood != "" && !common.StringSliceContains(ValidMoods, f.Mood) {
		return common.NewValidationError(fmt.Sprintf("Invalid mood %q. Allowed: %s", f.Mood, strings.Join(ValidMoods, ", ")))
	}
	if f.TimeLimit != 0 && !validTimeLimit(f.TimeLimit) {
		return common.NewValidationError(fmt.Sprintf("Invalid time limit %d. Allowed: 15, 30, 60, 120", f.TimeLimit))
	}
	return nil
}

func validTimeLimit(minutes int) bool {
	for _, v := range ValidTimeLimits {
		if v == minutes {
			return true
		}
	}
	return false
}

// Apply 將部分更新合併到現有條件
func (p FilterPatch) Apply(f SearchFilters) SearchFilters {
	merged := SearchFilters{
		Mood:               f.Mood,
		TimeLimit:          f.TimeLimit,
		ExcludeIngredients: append([]string{}, f.ExcludeIngredients...),
	}
	if p.Mood != nil {
		merged.Mood = strings.TrimSpace(strings.ToLower(*p.Mood))
	}
	if p.TimeLimit != nil {
		merged.TimeLimit = *p.TimeLimit
	}
	if p.ExcludeIngredients != nil {
		merged.ExcludeIngredients = normalizeIngredients(*p.ExcludeIngredients)
	}
	return merged
}

// FilterByMood 依菜名關鍵字過濾，未定義規則的心情全部保留
func FilterByMood(meals []mealdb.MealSummary, mood string) []mealdb.MealSummary {
	keywords, hasKeywords := moodKeywords[mood]
	exclusions, hasExclusions := moodExclusions[mood]
	if !hasKeywords && !hasExclusions {
		return meals
	}

	filtered := make([]mealdb.MealSummary, 0, len(meals))
	for _, meal := range meals {
		name := strings.ToLower(meal.Name)
		if hasKeywords && !containsAny(name, keywords) {
			continue
		}
		if hasExclusions && containsAny(name, exclusions) {
			continue
		}
		filtered = append(filtered, meal)
	}
	return filtered
}

// FilterByTime 查詢每道菜的詳細資料並保留預估時間不超過上限者
//
// 查詢失敗或查無資料的菜色直接略過，結果維持原順序；ctx 被取消或逾時則回傳 ctx 的錯誤。
func FilterByTime(ctx context.Context, lookup MealLookup, meals []mealdb.MealSummary, limit, concurrency int) ([]mealdb.MealSummary, error) {
	keep := make([]bool, len(meals))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, meal := range meals {
		i, meal := i, meal
		g.Go(func() error {
			detail, err := lookup.GetMealDetails(gctx, meal.ID)
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				common.LogWarn("Dropping meal after failed detail lookup",
					zap.String("meal_id", meal.ID),
					zap.Error(err),
				)
				return nil
			}
			if detail == nil {
				return nil
			}
			keep[i] = mealdb.EstimateCookingTime(detail.Category, detail.Area) <= limit
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := make([]mealdb.MealSummary, 0, len(meals))
	for i, meal := range meals {
		if keep[i] {
			filtered = append(filtered, meal)
		}
	}
	return filtered, nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// normalizeIngredients 正規化並去除空白與重複的食材
func normalizeIngredients(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		n := common.NormalizeIngredient(item)
		if n == "" || common.StringSliceContains(result, n) {
			continue
		}
		result = append(result, n)
	}
	return result
}
