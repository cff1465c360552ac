package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/infrastructure/storage"
	"recipe-ideas/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// detailLookup 回傳固定的菜色資料
type detailLookup struct {
	details map[string]*mealdb.MealDetail
	err     error
}

func (d detailLookup) GetMealDetails(ctx context.Context, id string) (*mealdb.MealDetail, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.details[id], nil
}

func sampleDetail() *mealdb.MealDetail {
	detail := &mealdb.MealDetail{
		ID:        "52772",
		Name:      "Teriyaki Chicken Casserole",
		Category:  "Chicken Casserole",
		Area:      "Japanese",
		Thumbnail: "https://img/1.jpg",
	}
	detail.Ingredients[0] = "soy sauce"
	detail.Measures[0] = "3/4 cup"
	detail.Ingredients[2] = "water"
	detail.Measures[2] = "1/2 cup"
	return detail
}

func TestMealServiceDetails(t *testing.T) {
	ctx := context.Background()
	favorites := newTestFavorites(t, storage.NewMemoryStore())
	_, err := favorites.Add(ctx, sampleDetail().Summary(), nil)
	require.NoError(t, err)

	svc := NewMealService(detailLookup{details: map[string]*mealdb.MealDetail{"52772": sampleDetail()}}, favorites, "http://localhost:8080")

	view, err := svc.Details(ctx, "52772")
	require.NoError(t, err)
	assert.Equal(t, 50, view.EstimatedMinutes)
	assert.Equal(t, "50min", view.EstimatedTime)
	assert.True(t, view.IsFavorite)
	assert.Len(t, view.Ingredients, 2)
}

func TestMealServiceNotFound(t *testing.T) {
	svc := NewMealService(detailLookup{}, nil, "")

	_, err := svc.Details(context.Background(), "404")
	assert.ErrorIs(t, err, common.ErrMealNotFound)

	_, err = svc.Details(context.Background(), "  ")
	assert.True(t, common.IsValidationError(err))
}

func TestMealServiceLookupFailure(t *testing.T) {
	svc := NewMealService(detailLookup{err: common.ErrLookupFailed.Wrap(errors.New("HTTP 500"))}, nil, "")

	_, err := svc.Details(context.Background(), "1")
	assert.ErrorIs(t, err, common.ErrLookupFailed)
}

func TestMealServiceExport(t *testing.T) {
	svc := NewMealService(detailLookup{details: map[string]*mealdb.MealDetail{"52772": sampleDetail()}}, nil, "")
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	data, filename, err := svc.Export(context.Background(), "52772")
	require.NoError(t, err)
	assert.Equal(t, "teriyaki-chicken-casserole-recipe.json", filename)

	var doc RecipeExport
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2024-01-02T03:04:05.000Z", doc.ExportedAt)
	assert.Equal(t, "Japanese", doc.Recipe.Area)
	assert.Equal(t, "https://img/1.jpg", doc.Recipe.Image)
}

func TestMealServiceShare(t *testing.T) {
	svc := NewMealService(detailLookup{details: map[string]*mealdb.MealDetail{"52772": sampleDetail()}}, nil, "https://recipes.example.com")

	link, err := svc.Share(context.Background(), "52772")
	require.NoError(t, err)
	assert.Equal(t, "https://recipes.example.com?recipe=52772", link.URL)
}
