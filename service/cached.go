package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/skillkit/core"
)

// DefaultCacheKeyPrefix 是缓存 key 的默认前缀。
const DefaultCacheKeyPrefix = "skillkit:payload"

// CachedBackend 用 core.Store 缓存模型 payload，key 为请求内容的哈希。
// 相同请求并发到达时只调用一次下游（singleflight），调用方共享同一个 payload，不应修改它。
type CachedBackend struct {
	Backend Backend
	// Store 由调用方管理，Close 不会关闭它
	Store core.Store

	// TTL 缓存时间（秒），0 表示不过期
	TTL int

	// KeyPrefix 缓存 key 前缀，默认 DefaultCacheKeyPrefix
	KeyPrefix string

	// Logger 记录缓存读写错误（可选）
	Logger *slog.Logger

	group singleflight.Group
}

// NewCachedBackend 创建带缓存的 Backend。
func NewCachedBackend(backend Backend, store core.Store, ttl int) *CachedBackend {
	return &CachedBackend{
		Backend:   backend,
		Store:     store,
		TTL:       ttl,
		KeyPrefix: DefaultCacheKeyPrefix,
	}
}

// Predict 实现 Backend：先读缓存，未命中时调用下游并回写。缓存错误不影响结果。
func (c *CachedBackend) Predict(ctx context.Context, req *PredictRequest) (core.Payload, error) {
	key, err := c.key(req)
	if err != nil {
		return nil, err
	}

	data, err := c.Store.Get(ctx, key)
	switch {
	case err == nil:
		payload, perr := core.ParsePayload(data)
		if perr == nil {
			return payload, nil
		}
		c.warn("cache decode failed", key, perr)
	case !core.IsStoreNotFound(err):
		c.warn("cache get failed", key, err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		payload, err := c.Backend.Predict(ctx, req)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			c.warn("cache encode failed", key, err)
			return payload, nil
		}
		if err := c.Store.Set(ctx, key, raw, c.TTL); err != nil {
			c.warn("cache set failed", key, err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(core.Payload), nil
}

func (c *CachedBackend) Health(ctx context.Context) error {
	return c.Backend.Health(ctx)
}

func (c *CachedBackend) Close() error {
	return c.Backend.Close()
}

// key 返回 {prefix}:{model}:{task}:{sha1(request json)}。
func (c *CachedBackend) key(req *PredictRequest) (string, error) {
	if req == nil {
		return "", core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "service: nil request")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("service cache key: %w", err)
	}
	sum := sha1.Sum(body)
	prefix := c.KeyPrefix
	if prefix == "" {
		prefix = DefaultCacheKeyPrefix
	}
	return fmt.Sprintf("%s:%s:%s:%s", prefix, req.ModelName, req.Task, hex.EncodeToString(sum[:])), nil
}

func (c *CachedBackend) warn(msg, key string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Warn(msg, "comp", "service", "store", c.Store.Name(), "key", key, "error", err)
}

var _ Backend = (*CachedBackend)(nil)
