package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 环境变量名。
const (
	EnvConfigPath    = "CONSOLE_CONFIG"
	EnvLogLevel      = "CONSOLE_LOG_LEVEL"
	EnvStorageDriver = "CONSOLE_STORAGE_DRIVER"
	EnvServerAddress = "CONSOLE_SERVER_ADDRESS"
	EnvAPIURL        = "CONSOLE_API_URL"
	EnvAPIKey        = "CONSOLE_API_KEY"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// ServerConfig 定义了 HTTP 服务的配置。
type ServerConfig struct {
	Address         string `yaml:"address"`         // 监听地址 (例如: ":8080")
	ReadTimeout     string `yaml:"readTimeout"`     // 例如: "15s"
	WriteTimeout    string `yaml:"writeTimeout"`    // 例如: "60s"
	ShutdownTimeout string `yaml:"shutdownTimeout"` // 优雅关闭的等待时间
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AuthConfig 定义了 API Key 认证。
// 只保存 bcrypt 哈希，不保存明文。
type AuthConfig struct {
	APIKeyHashes []string `yaml:"apiKeyHashes"` // bcrypt 哈希列表
	CacheTTL     string   `yaml:"cacheTTL"`     // 校验结果缓存时间
	CacheSize    int      `yaml:"cacheSize"`    // 校验结果缓存条数
}

// StorageConfig 选择 Store 的持久化后端。
type StorageConfig struct {
	Driver      string `yaml:"driver"`      // "memory", "mysql" 或 "mongo"
	AutoMigrate bool   `yaml:"autoMigrate"` // 启动时建表/建索引
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。事务要求副本集。
type MongoConfig struct {
	Address  string `yaml:"address"`  // MongoDB 连接 URI
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	Redis   RedisConfig `yaml:"redis"`   // Redis 数据库配置
	MySQL   MySQLConfig `yaml:"mysql"`   // MySQL 数据库配置
	MongoDB MongoConfig `yaml:"mongodb"` // MongoDB 数据库配置
	Kafka   KafkaConfig `yaml:"kafka"`   // Kafka 消息队列配置
}

// ProcessingConfig 定义了文档处理通知方式。
type ProcessingConfig struct {
	Mode         string  `yaml:"mode"`         // "simulate" 或 "kafka"
	Delay        string  `yaml:"delay"`        // simulate 模式下的完成延迟
	ErrorRate    float64 `yaml:"errorRate"`    // simulate 模式下的失败概率 [0,1]
	JobsTopic    string  `yaml:"jobsTopic"`    // 处理任务主题
	ResultsTopic string  `yaml:"resultsTopic"` // 处理结果主题
	GroupID      string  `yaml:"groupID"`      // 结果消费者组
}

// FolderCacheConfig 定义了导航文件夹缓存。
type FolderCacheConfig struct {
	RedisMirror bool   `yaml:"redisMirror"` // 是否写入 Redis 镜像
	KeyPrefix   string `yaml:"keyPrefix"`   // Redis key 前缀
	TTL         string `yaml:"ttl"`         // 镜像过期时间，空表示不过期
	Parallelism int    `yaml:"parallelism"` // RefreshAll 的最大并发数
}

// UploadsConfig 定义了上传限制。
type UploadsConfig struct {
	MaxSizeMB int `yaml:"maxSizeMB"`
}

// MaxBytes 返回字节数形式的上传上限。
func (u UploadsConfig) MaxBytes() int64 {
	return int64(u.MaxSizeMB) << 20
}

// ClientConfig 是 console-cli 访问 API 的配置。
type ClientConfig struct {
	BaseURL string `yaml:"baseURL"` // 例如: "http://localhost:8080/api/v1"
	APIKey  string `yaml:"apiKey"`
	Timeout string `yaml:"timeout"`
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// RateLimiterConfig 定义了限流器的配置。限流按 API Key 分别计算。
type RateLimiterConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Algorithm   string            `yaml:"algorithm"` // 支持: "fixedWindow", "tokenBucket"
	MaxClients  int               `yaml:"maxClients"`
	FixedWindow FixedWindowConfig `yaml:"fixedWindow"`
	TokenBucket TokenBucketConfig `yaml:"tokenBucket"`
}

// FixedWindowConfig 定义了固定窗口计数器算法的配置。
type FixedWindowConfig struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"` // 例如: "1m", "30s"
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App         AppInfo           `yaml:"app"`         // 应用程序信息
	Server      ServerConfig      `yaml:"server"`      // HTTP 服务配置
	Logger      LoggerConfig      `yaml:"logger"`      // 日志记录器配置
	Auth        AuthConfig        `yaml:"auth"`        // 认证配置
	Storage     StorageConfig     `yaml:"storage"`     // 持久化后端
	Databases   DatabaseConfigs   `yaml:"databases"`   // 数据库配置
	Processing  ProcessingConfig  `yaml:"processing"`  // 文档处理
	FolderCache FolderCacheConfig `yaml:"folderCache"` // 导航缓存
	Uploads     UploadsConfig     `yaml:"uploads"`     // 上传限制
	Client      ClientConfig      `yaml:"client"`      // CLI 客户端
	Middleware  MiddlewareConfig  `yaml:"middleware"`  // 中间件配置
}

// Default 返回不依赖任何外部服务即可运行的默认配置。
func Default() *AppConfig {
	return &AppConfig{
		App:    AppInfo{Name: "vector-console", Version: "dev", Environment: "development"},
		Server: ServerConfig{Address: ":8080", ReadTimeout: "15s", WriteTimeout: "60s", ShutdownTimeout: "10s"},
		Logger: LoggerConfig{Level: "info"},
		Auth:   AuthConfig{CacheTTL: "5m", CacheSize: 256},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Databases: DatabaseConfigs{
			MySQL: MySQLConfig{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 300},
		},
		Processing: ProcessingConfig{
			Mode:         "simulate",
			Delay:        "3s",
			ErrorRate:    0.1,
			JobsTopic:    "console.processing.jobs",
			ResultsTopic: "console.processing.results",
			GroupID:      "vector-console",
		},
		FolderCache: FolderCacheConfig{KeyPrefix: "console:folders:", Parallelism: 8},
		Uploads:     UploadsConfig{MaxSizeMB: 20},
		Client:      ClientConfig{BaseURL: "http://localhost:8080/api/v1", Timeout: "30s"},
		Middleware: MiddlewareConfig{
			RateLimiter: RateLimiterConfig{
				Algorithm:   "tokenBucket",
				MaxClients:  1024,
				FixedWindow: FixedWindowConfig{Limit: 100, Window: "1m"},
				TokenBucket: TokenBucketConfig{Rate: 10, Capacity: 20},
			},
			CircuitBreaker: CircuitBreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, Timeout: "30s"},
		},
	}
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
//
// path 为空时依次尝试 CONSOLE_CONFIG 环境变量和 ./config.yaml。
// 文件不存在时使用默认配置；文件中没有出现的字段保留默认值。
// 随后加载可选的 .env 文件并应用环境变量覆盖。
func LoadConfig(path string) (*AppConfig, error) {
	// .env 是可选的。
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = "config.yaml"
	}

	cfg := Default()
	yamlFile, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	default:
		if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
			return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv(EnvStorageDriver); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv(EnvServerAddress); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Client.APIKey = v
	}
}

// Validate 检查枚举值和时长字段。
func (c *AppConfig) Validate() error {
	switch c.Storage.Driver {
	case "memory", "mysql", "mongo":
	default:
		return fmt.Errorf("未知的 storage.driver: %q", c.Storage.Driver)
	}
	switch c.Processing.Mode {
	case "simulate", "kafka":
	default:
		return fmt.Errorf("未知的 processing.mode: %q", c.Processing.Mode)
	}
	if c.Processing.ErrorRate < 0 || c.Processing.ErrorRate > 1 {
		return fmt.Errorf("processing.errorRate 必须在 [0,1] 之间")
	}
	durations := map[string]string{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"auth.cacheTTL":          c.Auth.CacheTTL,
		"processing.delay":       c.Processing.Delay,
		"folderCache.ttl":        c.FolderCache.TTL,
		"client.timeout":         c.Client.Timeout,
	}
	for name, v := range durations {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Duration 解析时长字段，为空或无法解析时返回 fallback。
func Duration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return d
}
