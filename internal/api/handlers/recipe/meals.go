package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMeal 取得食譜詳細資料
func (h *Handler) GetMeal(c *gin.Context) {
	view, err := h.meals.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportMeal 下載單一食譜
func (h *Handler) ExportMeal(c *gin.Context) {
	data, filename, err := h.meals.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	attachment(c, filename, data)
}

// ShareMeal 取得分享資訊
func (h *Handler) ShareMeal(c *gin.Context) {
	link, err := h.meals.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
