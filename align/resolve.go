// Package align 把调用方的查询上下文与模型 payload 对齐到预测条数：
// 覆盖取值（Resolve）、上下文展开为文档（Documents）、解释按分数对齐（ToScores）。
package align

import (
	"github.com/rushteam/skillkit/core"
)

// Resolve 决定字段的最终取值：
//
//	payload[key] 存在且非空 → 使用 payload 的值（必须是 string 或 []string）
//	否则                    → 使用调用方提供的 def
//
// 结果若为单个字符串，则广播为长度 n 的列表；列表原样返回（长度由调用方校验）；空值保持为空。
func Resolve(def core.TextSpec, payload core.Payload, key string, n int) (core.TextSpec, error) {
	value := def
	if payload.Present(key) {
		override, err := core.ParseTextSpec(key, payload.Get(key))
		if err != nil {
			return core.TextSpec{}, err
		}
		value = override
	}
	return value.Broadcast(n), nil
}

// ResolveList 与 Resolve 相同，但要求结果是长度为 n 的列表；空值展开为 n 个空字符串。
func ResolveList(def core.TextSpec, payload core.Payload, key string, n int) ([]string, error) {
	value, err := Resolve(def, payload, key, n)
	if err != nil {
		return nil, err
	}
	list, ok := value.List()
	if !ok {
		return make([]string, n), nil
	}
	if len(list) != n {
		return nil, core.NewShapeMismatchError(key, len(list), n)
	}
	return list, nil
}
