package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/infrastructure/monitoring"
	"recipe-ideas/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	endpointFilter = "filter"
	endpointLookup = "lookup"
)

// Client TheMealDB API 客戶端
type Client struct {
	client *resty.Client
	cache  *ResponseCache
}

// NewClient 創建 TheMealDB 客戶端，cache 可為 nil
func NewClient(cfg *config.MealDBConfig, cache *ResponseCache) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		cache:  cache,
	}
}

// SearchByIngredient 依單一食材搜尋菜色，查無結果時回傳空切片
func (c *Client) SearchByIngredient(ctx context.Context, ingredient string) ([]MealSummary, error) {
	body, err := c.get(ctx, endpointFilter, strings.TrimSpace(ingredient))
	if err != nil {
		return nil, common.ErrSearchFailed.Wrap(err)
	}

	var resp filterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		common.LogError("Failed to decode filter response",
			zap.String("ingredient", ingredient),
			zap.Error(err),
		)
		return nil, common.ErrSearchFailed.Wrap(fmt.Errorf("failed to decode filter response: %w", err))
	}

	if resp.Meals == nil {
		return []MealSummary{}, nil
	}
	return resp.Meals, nil
}

// GetMealDetails 依 ID 取得完整菜色資料，查無資料時回傳 nil
func (c *Client) GetMealDetails(ctx context.Context, id string) (*MealDetail, error) {
	body, err := c.get(ctx, endpointLookup, id)
	if err != nil {
		return nil, common.ErrLookupFailed.Wrap(err)
	}

	var resp lookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		common.LogError("Failed to decode lookup response",
			zap.String("meal_id", id),
			zap.Error(err),
		)
		return nil, common.ErrLookupFailed.Wrap(fmt.Errorf("failed to decode lookup response: %w", err))
	}

	if len(resp.Meals) == 0 {
		return nil, nil
	}
	return &resp.Meals[0], nil
}

// get 發送 GET {base}/{endpoint}.php?i={value}，先查快取
func (c *Client) get(ctx context.Context, endpoint, value string) ([]byte, error) {
	cacheKey := endpoint + "?i=" + url.QueryEscape(value)
	if body, ok := c.cache.Get(cacheKey); ok {
		return body, nil
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("i", value).
		Get("/" + endpoint + ".php")
	duration := time.Since(start)

	if err != nil {
		err = fmt.Errorf("failed to send request to TheMealDB: %w", err)
	} else if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("TheMealDB returned HTTP %d", resp.StatusCode())
	}

	monitoring.ObserveUpstream(endpoint, duration, err)
	common.LogUpstreamCall(endpoint, duration, err, common.RequestIDFromContext(ctx))
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	c.cache.Set(cacheKey, body)
	return body, nil
}
