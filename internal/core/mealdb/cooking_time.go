package mealdb

import "strings"

// DefaultCookingMinutes 無關鍵字符合時的預估時間
const DefaultCookingMinutes = 30

// categoryTime 分類關鍵字對應的預估時間
type categoryTime struct {
	keyword string
	minutes int
}

// categoryTimes 依宣告順序比對，先符合者優先
var categoryTimes = []categoryTime{
	{"soup", 45},
	{"salad", 15},
	{"pasta", 25},
	{"rice", 35},
	{"curry", 40},
	{"stew", 60},
	{"casserole", 50},
	{"pizza", 30},
	{"sandwich", 10},
	{"breakfast", 20},
	{"dessert", 35},
}

// EstimateCookingTime 依分類估算烹調分鐘數
//
// area 目前不影響結果，保留參數以維持呼叫端介面。
func EstimateCookingTime(category, area string) int {
	lower := strings.ToLower(category)
	for _, ct := range categoryTimes {
		if strings.Contains(lower, ct.keyword) {
			return ct.minutes
		}
	}
	return DefaultCookingMinutes
}
