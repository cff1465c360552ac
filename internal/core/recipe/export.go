package recipe

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/pkg/common"
)

// NewRecipeExport 建立單一食譜的匯出內容
func NewRecipeExport(meal mealdb.MealSummary, detail *mealdb.MealDetail, now time.Time) RecipeExport {
	exported := ExportedRecipe{
		ID:          meal.ID,
		Name:        meal.Name,
		Image:       meal.Thumbnail,
		Ingredients: mealdb.ProcessIngredients(detail),
	}

	if detail != nil {
		exported.Category = detail.Category
		exported.Area = detail.Area
		exported.Instructions = detail.Instructions
		exported.Source = detail.Source
		exported.Youtube = detail.Youtube
		exported.Tags = splitTags(detail.Tags)
		if exported.Image == "" {
			exported.Image = detail.Thumbnail
		}
	}

	return RecipeExport{
		Recipe:     exported,
		ExportedAt: common.ISOTimestamp(now),
	}
}

// RecipeFilename 食譜匯出的下載檔名
func RecipeFilename(name string) string {
	return common.SlugifyFilename(name) + "-recipe.json"
}

// NewShareLink 建立食譜分享資訊
func NewShareLink(meal mealdb.MealSummary, baseURL string) ShareLink {
	link := fmt.Sprintf("%s?recipe=%s", baseURL, url.QueryEscape(meal.ID))
	return ShareLink{
		Title:     meal.Name,
		Text:      "Check out this delicious recipe: " + meal.Name,
		URL:       link,
		Clipboard: meal.Name + " - " + link,
	}
}

func splitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}

	parts := strings.Split(tags, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	return result
}
