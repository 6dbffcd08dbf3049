package filter

import (
	"context"

	"github.com/rushteam/skillkit/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉输出文本在黑名单中的预测。
type BlacklistFilter struct {
	// Outputs 是内存中的黑名单输出列表
	Outputs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单输出列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(outputs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		Outputs: outputs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.Query,
	pred *core.Prediction,
) (bool, error) {
	if pred == nil {
		return true, nil
	}
	output := pred.PredictionOutput.Output

	// 从内存列表检查
	for _, o := range f.Outputs {
		if output == o {
			return true, nil
		}
	}

	// 从 Store 检查；key 不存在视为空黑名单
	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil {
			if core.IsStoreNotFound(err) {
				return false, nil
			}
			return false, err
		}
		for _, o := range blacklist {
			if output == o {
				return true, nil
			}
		}
	}

	return false, nil
}
