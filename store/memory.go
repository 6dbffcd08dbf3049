package store

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rushteam/skillkit/core"
)

// DefaultMemorySize 是 MemoryStore 的默认容量（条目数）。
const DefaultMemorySize = 1024

// MemoryStore 是内存实现的 Store，用于测试/开发/单实例缓存。
// 按 LRU 淘汰，支持 TTL（过期时间），进程重启后数据丢失。
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

type entry struct {
	value    []byte
	expireAt time.Time // 零值表示不过期
}

// NewMemoryStore 创建容量为 size 的 MemoryStore，size <= 0 时使用 DefaultMemorySize。
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	// size > 0 时 lru.New 不会返回错误
	cache, _ := lru.New[string, entry](size)
	return &MemoryStore{cache: cache, now: time.Now}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.cache.Get(key)
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if !e.expireAt.IsZero() && m.now().After(e.expireAt) {
		m.cache.Remove(key)
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: value}
	if len(ttl) > 0 && ttl[0] > 0 {
		e.expireAt = m.now().Add(time.Duration(ttl[0]) * time.Second)
	}
	m.cache.Add(key, e)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Remove(key)
	return nil
}

// Len 返回当前条目数（含尚未被读到的过期条目）。
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

func (m *MemoryStore) Close() error {
	m.cache.Purge()
	return nil
}

var _ core.Store = (*MemoryStore)(nil)
