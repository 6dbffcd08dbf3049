// Package conv 提供 any 到具体类型的转换工具，用于解析模型服务返回的非类型化 payload
// 以及 YAML/JSON 配置（数字通常是 float64，列表通常是 []any）。
package conv

import (
	"encoding/json"
	"math"
	"reflect"
)

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32、json.Number；bool 不视为数值。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
// 支持 int、int64、int32、float64、float32、json.Number；带小数部分的浮点数返回 false。
func ToInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return floatToInt(val)
	case float32:
		return floatToInt(float64(val))
	case json.Number:
		i, err := val.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// ToString 将 any 转为 string。
// 仅支持 string 类型，否则返回 ("", false)。
func ToString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ToSlice 将任意切片（[]any、[]float64、[]map[string]any 等）转为 []any。
// 非切片返回 (nil, false)。
func ToSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if raw, ok := v.([]any); ok {
		return raw, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// ToMap 将 map[string]any 或其他 string 键 map 转为 map[string]any。
func ToMap(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// ConvertSlice 将 []T 按 convert 转为 []U；任一元素转换失败则整体返回 (nil, false)。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) ([]U, bool) {
	if s == nil {
		return nil, true
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		u, ok := convert(v)
		if !ok {
			return nil, false
		}
		out = append(out, u)
	}
	return out, true
}

// ToFloat64Slice 将数值列表转为 []float64，任一元素非数值时返回 false。
func ToFloat64Slice(v any) ([]float64, bool) {
	if f, ok := v.([]float64); ok {
		return f, true
	}
	raw, ok := ToSlice(v)
	if !ok {
		return nil, false
	}
	return ConvertSlice(raw, ToFloat64)
}

// ToIntSlice 将数值列表转为 []int。
func ToIntSlice(v any) ([]int, bool) {
	if i, ok := v.([]int); ok {
		return i, true
	}
	raw, ok := ToSlice(v)
	if !ok {
		return nil, false
	}
	return ConvertSlice(raw, ToInt)
}

// ToStringSlice 将同构字符串列表转为 []string，出现非字符串元素时返回 false。
func ToStringSlice(v any) ([]string, bool) {
	if s, ok := v.([]string); ok {
		return s, true
	}
	raw, ok := ToSlice(v)
	if !ok {
		return nil, false
	}
	return ConvertSlice(raw, ToString)
}

// Truthy 判断值是否“存在且非空”：nil、false、0、空字符串、空切片、空 map 均视为空。
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	}
	if f, ok := ToFloat64(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Decode 通过 JSON 重新编码把任意 Go 值（通常是 map[string]any）解码到 out 指向的结构体。
func Decode(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ConfigGet 从 map[string]any（如 YAML/JSON 解析结果）按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt64 从 config 取 int64。YAML/JSON 常得到 int 或 float64，此处兼容并统一为 int64。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	i, ok := ToInt(v)
	if !ok {
		return defaultVal
	}
	return int64(i)
}
