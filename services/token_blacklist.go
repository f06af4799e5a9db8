package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"myarc/logger"

	"github.com/redis/go-redis/v9"
)

// RedisTokenBlacklist revokes access tokens until they expire. With a nil
// client revocation is a no-op and nothing is ever blacklisted.
type RedisTokenBlacklist struct {
	Client *redis.Client
	log    *logger.Logger
}

func NewTokenBlacklist(client *redis.Client, log *logger.Logger) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{Client: client, log: log.With("component", "token_blacklist")}
}

func (tb *RedisTokenBlacklist) Configured() bool {
	return tb != nil && tb.Client != nil
}

// Blacklist stores the token until expiresAt. Already-expired tokens are
// skipped.
func (tb *RedisTokenBlacklist) Blacklist(ctx context.Context, tokenString string, expiresAt time.Time) error {
	if !tb.Configured() {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := tb.Client.Set(ctx, blacklistKey(tokenString), "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %v", err)
	}
	return nil
}

// IsBlacklisted fails open when Redis is unreachable.
func (tb *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, tokenString string) bool {
	if !tb.Configured() {
		return false
	}
	n, err := tb.Client.Exists(ctx, blacklistKey(tokenString)).Result()
	if err != nil {
		tb.log.Warn("checking token blacklist failed", "error", err)
		return false
	}
	return n > 0
}

func blacklistKey(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return "blacklist:access:" + hex.EncodeToString(sum[:])
}
