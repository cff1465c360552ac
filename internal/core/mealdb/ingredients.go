package mealdb

import "strings"

// ProcessIngredients 將 20 組食材欄位壓縮為有序清單，略過空白食材名稱
func ProcessIngredients(detail *MealDetail) []ProcessedIngredient {
	ingredients := make([]ProcessedIngredient, 0, IngredientSlots)
	if detail == nil {
		return ingredients
	}

	for i := 0; i < IngredientSlots; i++ {
		name := strings.TrimSpace(detail.Ingredients[i])
		if name == "" {
			continue
		}
		ingredients = append(ingredients, ProcessedIngredient{
			Ingredient: name,
			Measure:    strings.TrimSpace(detail.Measures[i]),
		})
	}

	return ingredients
}
