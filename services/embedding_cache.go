package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"myarc/logger"

	"github.com/redis/go-redis/v9"
)

// RedisEmbeddingCache keeps query and entry vectors keyed by content hash.
// A nil client turns every lookup into a miss.
type RedisEmbeddingCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewEmbeddingCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisEmbeddingCache {
	return &RedisEmbeddingCache{client: client, ttl: ttl, log: log.With("component", "embedding_cache")}
}

func (c *RedisEmbeddingCache) Get(ctx context.Context, key string) ([]float32, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("embedding cache read failed", "error", err)
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

func (c *RedisEmbeddingCache) Set(ctx context.Context, key string, vector []float32) {
	if c == nil || c.client == nil || len(vector) == 0 {
		return
	}
	data, err := json.Marshal(vector)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("embedding cache write failed", "error", err)
	}
}
