// Package store 提供 core.Store 的实现：进程内 LRU（MemoryStore）与 Redis（RedisStore）。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.Store = NewMemoryStore(1024)
package store
