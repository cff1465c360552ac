package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

// IsJSONArray 判斷原始 JSON 值是否為陣列
func IsJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ToPrettyJSON 以兩格縮排輸出 JSON，用於下載檔案
func ToPrettyJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

var nonAlphanumericPattern = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SlugifyFilename 將非英數字元逐一替換為連字號並轉為小寫
func SlugifyFilename(name string) string {
	return strings.ToLower(nonAlphanumericPattern.ReplaceAllString(name, "-"))
}

// NormalizeIngredient 食材正規化：去除前後空白並轉小寫
func NormalizeIngredient(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

var ingredientSeparatorPattern = regexp.MustCompile(`[,\n]+`)

// ParseIngredientList 解析以逗號或換行分隔的食材字串
func ParseIngredientList(input string) []string {
	parts := ingredientSeparatorPattern.Split(input, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := NormalizeIngredient(p); n != "" {
			result = append(result, n)
		}
	}
	return result
}

// StringSliceContains 判斷切片是否包含指定字串
func StringSliceContains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
