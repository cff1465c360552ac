package recipe

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"recipe-ideas/internal/core/mealdb"
	"recipe-ideas/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FavoriteRequest 收藏請求，details 可省略
type FavoriteRequest struct {
	Meal    mealdb.MealSummary `json:"meal"`
	Details *mealdb.MealDetail `json:"details,omitempty"`
}

func (r FavoriteRequest) validate() error {
	if strings.TrimSpace(r.Meal.ID) == "" {
		return common.NewValidationError("meal.idMeal is required")
	}
	return nil
}

// ListFavorites 取得所有收藏
func (h *Handler) ListFavorites(c *gin.Context) {
	favorites := h.favorites.List()
	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite 加入收藏
func (h *Handler) AddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(c, err)
		return
	}

	fav, err := h.favorites.Add(c.Request.Context(), req.Meal, req.Details)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// ToggleFavorite 切換收藏
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req FavoriteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(c, err)
		return
	}

	isFavorite, err := h.favorites.Toggle(c.Request.Context(), req.Meal, req.Details)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         req.Meal.ID,
		"isFavorite": isFavorite,
	})
}

// GetFavorite 查詢是否已收藏
func (h *Handler) GetFavorite(c *gin.Context) {
	id := c.Param("id")
	fav, ok := h.favorites.Get(id)

	resp := gin.H{
		"id":         id,
		"isFavorite": ok,
	}
	if ok {
		resp["favorite"] = fav
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveFavorite 移除收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportFavorites 下載收藏匯出檔
func (h *Handler) ExportFavorites(c *gin.Context) {
	data, filename, err := h.favorites.Export()
	if err != nil {
		h.respondError(c, err)
		return
	}
	attachment(c, filename, data)
}

// ImportFavorites 匯入收藏，接受 JSON 請求體或 multipart 的 file 欄位
func (h *Handler) ImportFavorites(c *gin.Context) {
	requestID := getRequestID(c)

	contents, err := readImportBody(c)
	if err != nil {
		common.LogWarn("Failed to read favorites import",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		h.respondError(c, common.ErrInvalidFavoritesFile.Wrap(err))
		return
	}

	favorites, err := h.favorites.Import(c.Request.Context(), contents)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.LogInfo("收藏匯入成功",
		zap.String("request_id", requestID),
		zap.Int("count", len(favorites)),
	)
	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

func readImportBody(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing file field: %w", err)
		}
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

// attachment 以下載檔案的方式回應 JSON
func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json", data)
}
