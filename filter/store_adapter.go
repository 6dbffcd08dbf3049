package filter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/skillkit/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单，值为 JSON 字符串数组。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var outputs []string
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, fmt.Errorf("blacklist %s: %w", key, err)
	}
	return outputs, nil
}

// SetBlacklist 把黑名单写入 Store。
func (a *StoreAdapter) SetBlacklist(ctx context.Context, key string, outputs []string, ttl ...int) error {
	data, err := json.Marshal(outputs)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data, ttl...)
}
