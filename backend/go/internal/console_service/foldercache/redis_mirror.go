package foldercache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"VectorConsole/backend/go/internal/models"

	"github.com/go-redis/redis/v8"
)

// RedisMirror stores each project's folder list as a JSON string under
// prefix+projectID.
type RedisMirror struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisMirror creates a mirror. A zero ttl keeps keys forever.
func NewRedisMirror(rdb *redis.Client, prefix string, ttl time.Duration) *RedisMirror {
	if prefix == "" {
		prefix = "console:folders:"
	}
	return &RedisMirror{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (m *RedisMirror) key(projectID string) string {
	return m.prefix + projectID
}

// Save writes the folder list of one project.
func (m *RedisMirror) Save(ctx context.Context, projectID string, folders []*models.Folder) error {
	data, err := json.Marshal(folders)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, m.key(projectID), data, m.ttl).Err()
}

// LoadAll reads every mirrored project.
func (m *RedisMirror) LoadAll(ctx context.Context) (map[string][]*models.Folder, error) {
	out := make(map[string][]*models.Folder)
	iter := m.rdb.Scan(ctx, 0, m.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := m.rdb.Get(ctx, key).Bytes()
		if err == redis.Nil {
			// 扫描与读取之间过期。
			continue
		}
		if err != nil {
			return nil, err
		}
		var folders []*models.Folder
		if err := json.Unmarshal(data, &folders); err != nil {
			return nil, err
		}
		out[strings.TrimPrefix(key, m.prefix)] = folders
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the mirrored list of one project.
func (m *RedisMirror) Delete(ctx context.Context, projectID string) error {
	return m.rdb.Del(ctx, m.key(projectID)).Err()
}
