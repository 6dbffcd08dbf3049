// Package filter 提供组装之后的预测过滤：按 CEL 表达式、无答案、输出黑名单剔除预测。
// 过滤只删除元素，不改变剩余预测的相对顺序。
package filter

import (
	"context"

	"github.com/rushteam/skillkit/core"
)

// Filter 是过滤器的抽象接口，用于判断一条 Prediction 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 pred 是否应该被过滤
	ShouldFilter(ctx context.Context, q *core.Query, pred *core.Prediction) (bool, error)
}
