package mealdb

import (
	"encoding/json"
	"fmt"
)

// IngredientSlots TheMealDB 每道菜固定的食材欄位數
const IngredientSlots = 20

// MealSummary filter.php 回傳的菜色摘要
type MealSummary struct {
	ID        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

// MealDetail lookup.php 回傳的完整菜色資料
type MealDetail struct {
	ID           string
	Name         string
	Category     string
	Area         string
	Instructions string
	Thumbnail    string
	Tags         string // 逗號分隔
	Youtube      string
	Source       string
	Ingredients  [IngredientSlots]string
	Measures     [IngredientSlots]string
}

// Summary 由完整資料取得摘要
func (m *MealDetail) Summary() MealSummary {
	return MealSummary{
		ID:        m.ID,
		Name:      m.Name,
		Thumbnail: m.Thumbnail,
	}
}

// ProcessedIngredient 整理後的食材與份量
type ProcessedIngredient struct {
	Ingredient string `json:"ingredient"`
	Measure    string `json:"measure"`
}

// filterResponse filter.php 回應
type filterResponse struct {
	Meals []MealSummary `json:"meals"`
}

// lookupResponse lookup.php 回應
type lookupResponse struct {
	Meals []MealDetail `json:"meals"`
}

func ingredientKey(i int) string { return fmt.Sprintf("strIngredient%d", i+1) }
func measureKey(i int) string    { return fmt.Sprintf("strMeasure%d", i+1) }

// UnmarshalJSON 解析 TheMealDB 欄位，null 與缺漏欄位視為空字串
func (m *MealDetail) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string) string {
		if s, ok := raw[key].(string); ok {
			return s
		}
		return ""
	}

	*m = MealDetail{
		ID:           str("idMeal"),
		Name:         str("strMeal"),
		Category:     str("strCategory"),
		Area:         str("strArea"),
		Instructions: str("strInstructions"),
		Thumbnail:    str("strMealThumb"),
		Tags:         str("strTags"),
		Youtube:      str("strYoutube"),
		Source:       str("strSource"),
	}
	for i := 0; i < IngredientSlots; i++ {
		m.Ingredients[i] = str(ingredientKey(i))
		m.Measures[i] = str(measureKey(i))
	}
	return nil
}

// MarshalJSON 輸出與 TheMealDB 相同的欄位名稱，空的選填欄位省略
func (m MealDetail) MarshalJSON() ([]byte, error) {
	out := map[string]string{
		"idMeal":          m.ID,
		"strMeal":         m.Name,
		"strCategory":     m.Category,
		"strArea":         m.Area,
		"strInstructions": m.Instructions,
		"strMealThumb":    m.Thumbnail,
	}
	optional := map[string]string{
		"strTags":    m.Tags,
		"strYoutube": m.Youtube,
		"strSource":  m.Source,
	}
	for i := 0; i < IngredientSlots; i++ {
		optional[ingredientKey(i)] = m.Ingredients[i]
		optional[measureKey(i)] = m.Measures[i]
	}
	for k, v := range optional {
		if v != "" {
			out[k] = v
		}
	}
	return json.Marshal(out)
}
