package recipe

import (
	"testing"
	"time"

	"recipe-ideas/internal/core/mealdb"

	"github.com/stretchr/testify/assert"
)

func TestNewRecipeExport(t *testing.T) {
	detail := &mealdb.MealDetail{
		ID:           "52772",
		Name:         "Teriyaki Chicken Casserole",
		Category:     "Chicken",
		Area:         "Japanese",
		Instructions: "Preheat oven.",
		Tags:         "Meat, Casserole,",
		Youtube:      "https://youtube/x",
	}
	detail.Ingredients[0] = "soy sauce"
	detail.Measures[0] = "3/4 cup"

	m := mealdb.MealSummary{ID: "52772", Name: "Teriyaki Chicken Casserole", Thumbnail: "https://img/1.jpg"}
	export := NewRecipeExport(m, detail, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC))

	assert.Equal(t, "2024-05-01T08:30:00.000Z", export.ExportedAt)
	assert.Equal(t, "Japanese", export.Recipe.Area)
	assert.Equal(t, "https://img/1.jpg", export.Recipe.Image)
	assert.Equal(t, []string{"Meat", "Casserole"}, export.Recipe.Tags)
	assert.Equal(t, "", export.Recipe.Source)
	assert.Equal(t, []mealdb.ProcessedIngredient{{Ingredient: "soy sauce", Measure: "3/4 cup"}}, export.Recipe.Ingredients)
}

func TestNewRecipeExportWithoutDetails(t *testing.T) {
	export := NewRecipeExport(mealdb.MealSummary{ID: "1", Name: "Toast"}, nil, time.Unix(0, 0))

	assert.Equal(t, "Toast", export.Recipe.Name)
	assert.Empty(t, export.Recipe.Ingredients)
	assert.Nil(t, export.Recipe.Tags)
}

func TestRecipeFilename(t *testing.T) {
	assert.Equal(t, "teriyaki-chicken-casserole-recipe.json", RecipeFilename("Teriyaki Chicken Casserole"))
	assert.Equal(t, "mom-s--best--pie-recipe.json", RecipeFilename("Mom's  Best! Pie"))
}

func TestNewShareLink(t *testing.T) {
	link := NewShareLink(mealdb.MealSummary{ID: "52772", Name: "Chicken Handi"}, "https://recipes.example.com/")

	assert.Equal(t, "Chicken Handi", link.Title)
	assert.Equal(t, "Check out this delicious recipe: Chicken Handi", link.Text)
	assert.Equal(t, "https://recipes.example.com/?recipe=52772", link.URL)
	assert.Equal(t, "Chicken Handi - https://recipes.example.com/?recipe=52772", link.Clipboard)
}
