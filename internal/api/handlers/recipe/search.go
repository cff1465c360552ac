package recipe

import (
	"net/http"

	recipeService "recipe-ideas/internal/core/recipe"
	"recipe-ideas/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngredientRequest 加入食材，ingredient 為單一食材，text 為逗號或換行分隔的清單
type IngredientRequest struct {
	Ingredient string `json:"ingredient" binding:"omitempty,max=100"`
	Text       string `json:"text" binding:"omitempty,max=2000"`
}

// GetSearchState 取得目前搜尋狀態
func (h *Handler) GetSearchState(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.State())
}

// AddIngredient 加入食材
func (h *Handler) AddIngredient(c *gin.Context) {
	var req IngredientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var state recipeService.SearchState
	switch {
	case req.Ingredient != "":
		state = h.search.AddIngredient(req.Ingredient)
	case req.Text != "":
		state = h.search.AddIngredients(req.Text)
	default:
		h.respondError(c, common.NewValidationError("ingredient or text is required"))
		return
	}

	c.JSON(http.StatusOK, state)
}

// RemoveIngredient 移除食材
func (h *Handler) RemoveIngredient(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.RemoveIngredient(c.Param("name")))
}

// UpdateFilters 更新過濾條件
func (h *Handler) UpdateFilters(c *gin.Context) {
	var patch recipeService.FilterPatch
	if !h.bindJSON(c, &patch) {
		return
	}

	state, err := h.search.UpdateFilters(patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Search 執行搜尋
func (h *Handler) Search(c *gin.Context) {
	requestID := getRequestID(c)
	common.LogInfo("開始處理食譜搜尋請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	state, err := h.search.Search(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.LogInfo("食譜搜尋成功",
		zap.String("request_id", requestID),
		zap.Int("results", len(state.Results)),
	)
	c.JSON(http.StatusOK, state)
}

// ClearSearch 清除搜尋
func (h *Handler) ClearSearch(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.ClearSearch())
}

// GetHistory 取得搜尋紀錄
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := h.search.History(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// ClearHistory 清除搜尋紀錄
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.search.ClearHistory(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
