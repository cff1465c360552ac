package mealdb

import (
	"context"
	"sort"

	"recipe-ideas/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// IngredientSearcher 單一食材搜尋
type IngredientSearcher interface {
	SearchByIngredient(ctx context.Context, ingredient string) ([]MealSummary, error)
}

// Resolver 多食材搜尋：取交集，交集為空時改以符合食材數排序的聯集
type Resolver struct {
	searcher IngredientSearcher
}

// NewResolver 創建多食材搜尋器
func NewResolver(searcher IngredientSearcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// SearchByMultipleIngredients 同時查詢每個食材並合併結果，任一查詢失敗即整體失敗
func (r *Resolver) SearchByMultipleIngredients(ctx context.Context, ingredients []string) ([]MealSummary, error) {
	distinct := dedupe(ingredients)
	if len(distinct) == 0 {
		return []MealSummary{}, nil
	}

	resultSets := make([][]MealSummary, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	for i, ingredient := range distinct {
		i, ingredient := i, ingredient
		g.Go(func() error {
			meals, err := r.searcher.SearchByIngredient(gctx, ingredient)
			if err != nil {
				return err
			}
			resultSets[i] = meals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		common.LogError("Multi-ingredient search failed",
			zap.Strings("ingredients", distinct),
			zap.Error(err),
		)
		return nil, err
	}

	if len(resultSets) == 1 {
		return resultSets[0], nil
	}

	if intersection := Intersect(resultSets); len(intersection) > 0 {
		return intersection, nil
	}
	return RankedUnion(resultSets), nil
}

// Intersect 取所有結果集共有的菜色，保留第一個結果集的順序
func Intersect(resultSets [][]MealSummary) []MealSummary {
	if len(resultSets) == 0 {
		return []MealSummary{}
	}

	idSets := make([]map[string]struct{}, len(resultSets))
	for i, set := range resultSets {
		ids := make(map[string]struct{}, len(set))
		for _, meal := range set {
			ids[meal.ID] = struct{}{}
		}
		idSets[i] = ids
	}

	intersection := make([]MealSummary, 0)
	for _, meal := range resultSets[0] {
		inAll := true
		for _, ids := range idSets[1:] {
			if _, ok := ids[meal.ID]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			intersection = append(intersection, meal)
		}
	}
	return intersection
}

// RankedUnion 依出現次數由多到少排序的聯集，次數相同時保留首次出現順序
func RankedUnion(resultSets [][]MealSummary) []MealSummary {
	type counted struct {
		meal  MealSummary
		count int
	}

	index := make(map[string]int)
	var ranked []counted
	for _, set := range resultSets {
		for _, meal := range set {
			if i, ok := index[meal.ID]; ok {
				ranked[i].count++
				continue
			}
			index[meal.ID] = len(ranked)
			ranked = append(ranked, counted{meal: meal, count: 1})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})

	union := make([]MealSummary, len(ranked))
	for i, item := range ranked {
		union[i] = item.meal
	}
	return union
}

// dedupe 去除重複食材，保留原順序
func dedupe(ingredients []string) []string {
	seen := make(map[string]struct{}, len(ingredients))
	result := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := seen[ing]; ok {
			continue
		}
		seen[ing] = struct{}{}
		result = append(result, ing)
	}
	return result
}
