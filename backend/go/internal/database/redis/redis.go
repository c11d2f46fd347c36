package redis

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"VectorConsole/backend/go/internal/config"
)

// DefaultNamespace 是导航缓存镜像在 Redis 中的默认 key 前缀。
const DefaultNamespace = "console:folders:"

var (
	client  *redis.Client
	once    sync.Once
	initErr error
)

// Options 把配置转换成客户端参数。镜像只是缓存，超时取短值，Redis 慢时宁可跳过。
func Options(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

// Namespace 规范化镜像的 key 前缀：为空时使用默认值，并保证以 ':' 结尾，
// 避免 SCAN "prefix*" 匹配到以相同字符串开头的其他命名空间。
func Namespace(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultNamespace
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefix
}

// GetClient 使用单例模式初始化并返回一个 Redis 客户端实例。
// 导航缓存的 Redis 镜像使用这个客户端。
func GetClient(cfg *config.RedisConfig) (*redis.Client, error) {
	once.Do(func() {
		rdb := redis.NewClient(Options(cfg))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			initErr = fmt.Errorf("无法连接到 Redis %s: %w", cfg.Address, err)
			return
		}

		log.Printf("✅ 成功连接到 Redis (%s, db %d)", cfg.Address, cfg.DB)
		client = rdb
	})

	return client, initErr
}

// Close 安全地关闭单例的 Redis 连接。
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// HealthCheck 检查 Redis 连接的健康状况。
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("Redis 客户端未初始化")
	}
	return client.Ping(ctx).Err()
}
