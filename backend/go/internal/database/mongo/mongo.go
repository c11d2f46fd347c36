package mongo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"VectorConsole/backend/go/internal/config"
)

// DefaultDatabase 是未配置 database 时使用的库名。
const DefaultDatabase = "vector_console"

const appName = "vector-console"

var (
	client  *mongo.Client
	once    sync.Once
	initErr error
)

// DatabaseName 返回控制台实体所在的库名。
func DatabaseName(cfg *config.MongoConfig) string {
	if name := strings.TrimSpace(cfg.Database); name != "" {
		return name
	}
	return DefaultDatabase
}

// ClientOptions 把配置转换成客户端参数。
// 实体和计数器在同一个事务里提交，读写都使用 majority，保证提交后的读取能看到结果。
func ClientOptions(cfg *config.MongoConfig) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.Address).
		SetAppName(appName).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority())
	if cfg.Username != "" && cfg.Password != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	return opts
}

// GetClient 使用单例模式初始化并返回一个 MongoDB 客户端实例。
// MongoPersister 依赖多文档事务，服务端必须是副本集，否则连接阶段就报错。
func GetClient(cfg *config.MongoConfig) (*mongo.Client, error) {
	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, ClientOptions(cfg))
		if err != nil {
			initErr = fmt.Errorf("无法连接到 MongoDB: %w", err)
			return
		}
		if err = c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			initErr = fmt.Errorf("无法 Ping MongoDB: %w", err)
			return
		}
		setName, err := replicaSetName(ctx, c)
		if err != nil {
			_ = c.Disconnect(context.Background())
			initErr = err
			return
		}

		log.Printf("✅ 成功连接到 MongoDB (replica set %s, database %s)", setName, DatabaseName(cfg))
		client = c
	})

	return client, initErr
}

// replicaSetName 通过 hello 命令确认服务端支持事务。
func replicaSetName(ctx context.Context, c *mongo.Client) (string, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := c.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return "", fmt.Errorf("MongoDB hello 命令失败: %w", err)
	}
	if hello.SetName == "" && hello.Msg != "isdbgrid" {
		return "", fmt.Errorf("MongoDB 不是副本集，无法使用事务持久化")
	}
	if hello.SetName == "" {
		return "mongos", nil
	}
	return hello.SetName, nil
}

// Close 安全地断开单例的 MongoDB 客户端连接。
func Close(ctx context.Context) error {
	if client != nil {
		return client.Disconnect(ctx)
	}
	return nil
}

// HealthCheck 检查 MongoDB 连接的健康状况。
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("MongoDB 客户端未初始化")
	}
	return client.Ping(ctx, readpref.Primary())
}
