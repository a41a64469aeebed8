package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// 会话快照键前缀
	sessionCachePrefix = "session:"

	// 快照 TTL 与内存会话的空闲回收周期保持一致
	sessionSnapshotTTL = 30 * time.Minute
)

// ContextCache 会话快照缓存，进程重启后可从 Redis 恢复热会话
type ContextCache struct {
	redis *redis.Client
}

// NewContextCache 创建会话快照缓存
func NewContextCache(rdb *redis.Client) domain.ContextCache {
	return &ContextCache{redis: rdb}
}

// Save 写入会话快照
func (c *ContextCache) Save(ctx context.Context, snapshot domain.ContextSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	key := sessionCachePrefix + snapshot.SessionID
	if err := c.redis.Set(ctx, key, data, sessionSnapshotTTL).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Load 读取会话快照，未命中返回 ErrSessionNotFound
func (c *ContextCache) Load(ctx context.Context, sessionID string) (*domain.ContextSnapshot, error) {
	key := sessionCachePrefix + sessionID
	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var snapshot domain.ContextSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return &snapshot, nil
}

// Delete 删除会话快照
func (c *ContextCache) Delete(ctx context.Context, sessionID string) error {
	key := sessionCachePrefix + sessionID
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}
