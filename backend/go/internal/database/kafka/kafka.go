package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"

	"github.com/segmentio/kafka-go"

	"VectorConsole/backend/go/internal/config"
)

// KafkaClient 持有一个管理连接，用于创建主题和健康检查。
// 生产和消费由 processing 包自己的 Writer/Reader 完成。
type KafkaClient struct {
	Conn    *kafka.Conn
	Brokers []string
}

var (
	client  *KafkaClient
	once    sync.Once
	initErr error
)

// GetClient 使用单例模式初始化 KafkaClient，并确保 topics 全部存在。
func GetClient(cfg *config.KafkaConfig, topics ...string) (*KafkaClient, error) {
	once.Do(func() {
		if len(cfg.Brokers) == 0 {
			initErr = fmt.Errorf("未配置 Kafka brokers")
			return
		}

		conn, err := kafka.Dial("tcp", cfg.Brokers[0])
		if err != nil {
			initErr = fmt.Errorf("kafka 初始化连接失败: %w", err)
			return
		}

		c := &KafkaClient{Conn: conn, Brokers: cfg.Brokers}
		if err := c.EnsureTopics(topics...); err != nil {
			conn.Close()
			initErr = err
			return
		}

		log.Println("✅ 成功初始化 Kafka 客户端!")
		client = c
	})

	return client, initErr
}

// MissingTopics 返回 wanted 中不在 existing 里的主题，保持顺序并去重。
func MissingTopics(existing []kafka.Partition, wanted []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		have[p.Topic] = struct{}{}
	}
	var missing []string
	for _, t := range wanted {
		if _, ok := have[t]; ok || t == "" {
			continue
		}
		have[t] = struct{}{}
		missing = append(missing, t)
	}
	return missing
}

// EnsureTopics 创建不存在的主题。创建请求必须发给 controller。
func (c *KafkaClient) EnsureTopics(topics ...string) error {
	partitions, err := c.Conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("无法读取 Kafka 分区信息: %w", err)
	}
	missing := MissingTopics(partitions, topics)
	if len(missing) == 0 {
		return nil
	}

	controller, err := c.Conn.Controller()
	if err != nil {
		return fmt.Errorf("无法获取 Kafka controller: %w", err)
	}
	ctrl, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("无法连接 Kafka controller: %w", err)
	}
	defer ctrl.Close()

	configs := make([]kafka.TopicConfig, 0, len(missing))
	for _, t := range missing {
		log.Printf("主题 '%s' 不存在，准备创建...", t)
		configs = append(configs, kafka.TopicConfig{Topic: t, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := ctrl.CreateTopics(configs...); err != nil {
		return fmt.Errorf("自动创建 Kafka 主题失败: %w", err)
	}
	log.Printf("成功创建 %d 个 Kafka 主题。", len(configs))
	return nil
}

// Close 关闭管理连接。
func (c *KafkaClient) Close() error {
	if c == nil || c.Conn == nil {
		return nil
	}
	if err := c.Conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("关闭 Kafka 管理连接失败: %w", err)
	}
	return nil
}

// HealthCheck 检查 Kafka 连接的健康状况。
func (c *KafkaClient) HealthCheck(_ context.Context) error {
	if c == nil || c.Conn == nil {
		return fmt.Errorf("kafka 客户端未初始化，无法进行健康检查")
	}
	_, err := c.Conn.Controller()
	return err
}
