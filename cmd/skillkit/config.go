package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envConfig 是从环境变量（及工作目录下的 .env）读取的运行配置。
type envConfig struct {
	BackendEndpoint string
	BackendTimeout  int // 秒
	RedisAddr       string
	RedisDB         int
	CacheTTL        int // 秒，0 表示不缓存
	CacheSize       int
	LogLevel        slog.Level
	MaxConcurrent   int
}

func loadEnvConfig() envConfig {
	// .env 不存在时忽略；不覆盖已有 ENV
	_ = godotenv.Load()

	return envConfig{
		BackendEndpoint: getenv("SKILLKIT_BACKEND_ENDPOINT", ""),
		BackendTimeout:  getenvInt("SKILLKIT_BACKEND_TIMEOUT", 30),
		RedisAddr:       getenv("SKILLKIT_REDIS_ADDR", ""),
		RedisDB:         getenvInt("SKILLKIT_REDIS_DB", 0),
		CacheTTL:        getenvInt("SKILLKIT_CACHE_TTL", 0),
		CacheSize:       getenvInt("SKILLKIT_CACHE_SIZE", 1024),
		LogLevel:        parseLevel(getenv("SKILLKIT_LOG_LEVEL", "info")),
		MaxConcurrent:   getenvInt("SKILLKIT_MAX_CONCURRENT", 8),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
