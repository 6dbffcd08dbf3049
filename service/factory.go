package service

import (
	"fmt"
	"time"

	"github.com/rushteam/skillkit/core"
)

// NewBackend 根据配置创建 Backend 实例（工厂方法）。
// store 非 nil 且 CacheTTL > 0 时返回带缓存的 Backend。
func NewBackend(config *ServiceConfig, store core.Store) (Backend, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var backend Backend
	switch config.Type {
	case ServiceTypeHTTP, "":
		opts := []HTTPOption{
			WithHTTPTimeout(timeout),
		}
		if config.Auth != nil {
			opts = append(opts, WithHTTPAuth(config.Auth))
		}
		backend = NewHTTPClient(config.Endpoint, opts...)
	default:
		return nil, fmt.Errorf("unsupported service type: %s", config.Type)
	}

	if store != nil && config.CacheTTL > 0 {
		return NewCachedBackend(backend, store, config.CacheTTL), nil
	}
	return backend, nil
}

// hasHTTPPrefix 检查是否包含 HTTP 前缀
func hasHTTPPrefix(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || s[:8] == "https://")
}

// ValidateConfig 验证服务配置
func ValidateConfig(config *ServiceConfig) error {
	if config == nil {
		return fmt.Errorf("config is required")
	}
	if config.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if !hasHTTPPrefix(config.Endpoint) {
		return fmt.Errorf("endpoint must start with http:// or https://: %s", config.Endpoint)
	}
	if config.Timeout < 0 || config.CacheTTL < 0 {
		return fmt.Errorf("timeout and cache_ttl must not be negative")
	}
	return nil
}
