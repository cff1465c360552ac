package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-ideas/internal/core/mealdb"
	recipeService "recipe-ideas/internal/core/recipe"
	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMealDB 模擬 TheMealDB 的 filter 與 lookup 端點
func fakeMealDB(t *testing.T) *httptest.Server {
	t.Helper()

	filters := map[string]string{
		"chicken": `{"meals":[{"idMeal":"1","strMeal":"Chicken Curry","strMealThumb":""},{"idMeal":"2","strMeal":"Chicken Fried Rice","strMealThumb":""}]}`,
		"rice":    `{"meals":[{"idMeal":"2","strMeal":"Chicken Fried Rice","strMealThumb":""},{"idMeal":"3","strMeal":"Rice Pudding","strMealThumb":""}]}`,
	}
	lookups := map[string]string{
		"2": `{"meals":[{"idMeal":"2","strMeal":"Chicken Fried Rice","strCategory":"Chicken","strArea":"Chinese",
			"strInstructions":"Fry it.","strMealThumb":"https://img/2.jpg","strTags":"Rice,Quick",
			"strIngredient1":"rice","strMeasure1":"2 cups","strIngredient2":"chicken","strMeasure2":"200g"}]}`,
		"404": `{"meals":null}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("i")
		var body string
		switch {
		case strings.HasSuffix(r.URL.Path, "/filter.php"):
			body = filters[key]
		case strings.HasSuffix(r.URL.Path, "/lookup.php"):
			if key == "500" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			body = lookups[key]
		}
		if body == "" {
			body = `{"meals":null}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.App.Debug = true
	cfg.RateLimit.Enabled = false
	cfg.Storage.Driver = config.StorageMemory
	cfg.Share.BaseURL = "https://recipes.example.com"
	cfg.MealDB.BaseURL = fakeMealDB(t).URL

	ctx := context.Background()
	store := storage.NewMemoryStore()
	client := mealdb.NewClient(&cfg.MealDB, nil)

	favorites, err := recipeService.NewFavoritesService(ctx, store)
	require.NoError(t, err)

	deps := Dependencies{
		Search: recipeService.NewSearchService(
			mealdb.NewResolver(client),
			client,
			recipeService.NewHistoryStore(store, cfg.Search.HistoryLimit),
			&cfg.Search,
		),
		Favorites: favorites,
		Meals:     recipeService.NewMealService(client, favorites, cfg.Share.BaseURL),
		Store:     store,
	}

	router, err := SetupRouter(cfg, deps)
	require.NoError(t, err)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSetupRouterRequiresServices(t *testing.T) {
	_, err := SetupRouter(config.Default(), Dependencies{})
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		w := doJSON(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])
}

func TestSearchWithoutIngredients(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Equal(t, "Please add at least one ingredient to search.", body["message"])
}

func TestSearchFlow(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/search/ingredients", gin.H{"text": "Chicken, rice"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"chicken", "rice"}, decode(t, w)["ingredients"])

	w = doJSON(router, http.MethodPost, "/api/v1/search", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state recipeService.SearchState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, recipeService.StatusSuccess, state.Status)
	require.Len(t, state.Results, 1)
	assert.Equal(t, "2", state.Results[0].ID)

	w = doJSON(router, http.MethodGet, "/api/v1/search/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode(t, w)["history"].([]interface{})
	assert.Len(t, history, 1)

	w = doJSON(router, http.MethodDelete, "/api/v1/search/ingredients/rice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"chicken"}, decode(t, w)["ingredients"])

	w = doJSON(router, http.MethodDelete, "/api/v1/search", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode(t, w)["status"])

	w = doJSON(router, http.MethodDelete, "/api/v1/search/history", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAddIngredientRequiresInput(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/search/ingredients", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, w)["code"])
}

func TestUpdateFiltersValidation(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPatch, "/api/v1/search/filters", gin.H{"mood": "sleepy"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPatch, "/api/v1/search/filters", gin.H{"mood": "quick", "timeLimit": 30})
	require.Equal(t, http.StatusOK, w.Code)
	filters := decode(t, w)["filters"].(map[string]interface{})
	assert.Equal(t, "quick", filters["mood"])
	assert.Equal(t, float64(30), filters["timeLimit"])
}

func TestGetMeal(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/meals/2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(30), body["estimatedMinutes"])
	assert.Equal(t, "30min", body["estimatedTime"])
	assert.Equal(t, false, body["isFavorite"])
	assert.Len(t, body["ingredients"], 2)
}

func TestGetMealErrors(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/meals/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MEAL_NOT_FOUND", decode(t, w)["code"])

	w = doJSON(router, http.MethodGet, "/api/v1/meals/500", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Equal(t, "LOOKUP_FAILED", body["code"])
	assert.Equal(t, "Failed to load recipe details. Please try again.", body["message"])
	assert.NotEmpty(t, body["details"])
}

func TestExportAndShareMeal(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/meals/2/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="chicken-fried-rice-recipe.json"`, w.Header().Get("Content-Disposition"))

	var doc recipeService.RecipeExport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, []string{"Rice", "Quick"}, doc.Recipe.Tags)

	w = doJSON(router, http.MethodGet, "/api/v1/meals/2/share", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://recipes.example.com?recipe=2", decode(t, w)["url"])
}

func TestFavoritesFlow(t *testing.T) {
	router := setupTestRouter(t)
	meal := gin.H{"meal": gin.H{"idMeal": "2", "strMeal": "Chicken Fried Rice", "strMealThumb": ""}}

	w := doJSON(router, http.MethodPost, "/api/v1/favorites/toggle", meal)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isFavorite"])

	w = doJSON(router, http.MethodGet, "/api/v1/favorites/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isFavorite"])

	w = doJSON(router, http.MethodGet, "/api/v1/meals/2", nil)
	assert.Equal(t, true, decode(t, w)["isFavorite"])

	w = doJSON(router, http.MethodGet, "/api/v1/favorites", nil)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = doJSON(router, http.MethodDelete, "/api/v1/favorites/2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/favorites/2", nil)
	assert.Equal(t, false, decode(t, w)["isFavorite"])
}

func TestAddFavoriteRequiresMealID(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/favorites", gin.H{"meal": gin.H{"strMeal": "No ID"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/favorites", gin.H{"meal": gin.H{"idMeal": "9", "strMeal": "Nine"}})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFavoritesExportImport(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/favorites", gin.H{"meal": gin.H{"idMeal": "1", "strMeal": "Chicken Curry"}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/favorites/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="recipe-favorites-`)
	exported := w.Body.Bytes()

	// 非法檔案不影響現有收藏
	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/import", strings.NewReader(`{"favorites":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FAVORITES_FILE", decode(t, w)["code"])

	// multipart 上傳
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "favorites.json")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/favorites/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}

func TestInvalidJSONBody(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/search/filters", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, w)["code"])
}

func TestRepeatedPostsAllowedWithDefaultDedupWindow(t *testing.T) {
	router := setupTestRouter(t)
	meal := gin.H{"meal": gin.H{"idMeal": "2", "strMeal": "Chicken Fried Rice", "strMealThumb": ""}}

	w := doJSON(router, http.MethodPost, "/api/v1/favorites/toggle", meal)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isFavorite"])

	w = doJSON(router, http.MethodPost, "/api/v1/favorites/toggle", meal)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["isFavorite"])

	w = doJSON(router, http.MethodPost, "/api/v1/search/ingredients", gin.H{"ingredient": "chicken"})
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 2; i++ {
		w = doJSON(router, http.MethodPost, "/api/v1/search", nil)
		assert.Equal(t, http.StatusOK, w.Code, "search #%d", i+1)
	}
}

func TestDuplicateImportRejected(t *testing.T) {
	router := setupTestRouter(t)
	body := gin.H{"favorites": []gin.H{{"id": "1", "meal": gin.H{"idMeal": "1", "strMeal": "Chicken Curry"}}}}

	w := doJSON(router, http.MethodPost, "/api/v1/favorites/import", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/favorites/import", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode(t, w)["code"])
}

func TestUnknownRoute(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])
}
