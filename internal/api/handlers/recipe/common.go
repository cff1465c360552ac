package recipe

import (
	"context"
	"errors"
	"net/http"

	recipeService "recipe-ideas/internal/core/recipe"
	"recipe-ideas/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜 API 處理器
type Handler struct {
	search    *recipeService.SearchService
	favorites *recipeService.FavoritesService
	meals     *recipeService.MealService
	debug     bool
}

// NewHandler 創建處理器，debug 開啟時錯誤回應會附上詳細信息
func NewHandler(search *recipeService.SearchService, favorites *recipeService.FavoritesService, meals *recipeService.MealService, debug bool) *Handler {
	return &Handler{
		search:    search,
		favorites: favorites,
		meals:     meals,
		debug:     debug,
	}
}

// getRequestID 取得請求 ID，沒有時產生新的並寫回標頭
func getRequestID(c *gin.Context) string {
	requestID := requestid.Get(c)
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// respondError 將錯誤轉為統一的 JSON 錯誤回應
func (h *Handler) respondError(c *gin.Context, err error) {
	status, resp := errorResponse(err, h.debug)

	fields := []zap.Field{
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed", fields...)
	} else {
		common.LogDebug("Request rejected", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// errorResponse 對應錯誤的狀態碼與回應內容
//
// CustomError 優先，已包裝為上游錯誤的逾時仍回傳該錯誤的狀態碼與訊息。
func errorResponse(err error, debug bool) (int, common.ErrorResponse) {
	if common.IsValidationError(err) {
		return http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeValidationFailed,
			Message: err.Error(),
		}
	}

	if ce, ok := common.AsCustomError(err); ok {
		details := ""
		if debug && ce.Err != nil {
			details = ce.Err.Error()
		}
		return ce.Status, ce.Response(details)
	}

	details := ""
	if debug {
		details = err.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrGatewayTimeout.Status, common.ErrGatewayTimeout.Response(details)
	}

	return common.ErrInternalError.Status, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: common.UserMessage(err),
		Details: details,
	}
}

// bindJSON 解析請求 JSON，失敗時回應 400
func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		common.LogDebug("Invalid request format",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err),
		)
		details := ""
		if h.debug {
			details = err.Error()
		}
		c.AbortWithStatusJSON(common.ErrInvalidRequest.Status, common.ErrInvalidRequest.Response(details))
		return false
	}
	return true
}
