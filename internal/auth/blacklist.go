package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultBlacklistPrefix = "auth:revoked:"

// RedisBlacklist stores revoked token ids as keys that expire with the token.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

func NewRedisBlacklist(client *redis.Client, prefix string) *RedisBlacklist {
	if prefix == "" {
		prefix = defaultBlacklistPrefix
	}
	return &RedisBlacklist{client: client, prefix: prefix}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.prefix+jti, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := b.client.Get(ctx, b.prefix+jti).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return true, nil
}

// MemoryBlacklist is a single-process blacklist for development and tests.
// Revocations are lost on restart and are not shared between replicas.
type MemoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (b *MemoryBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if !expiresAt.After(now) {
		return nil
	}
	b.revoked[jti] = expiresAt
	b.sweep(now)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.revoked[jti]
	if !ok {
		return false, nil
	}
	if !exp.After(b.now()) {
		delete(b.revoked, jti)
		return false, nil
	}
	return true, nil
}

// Len reports entries still held, expired or not.
func (b *MemoryBlacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.revoked)
}

func (b *MemoryBlacklist) sweep(now time.Time) {
	for jti, exp := range b.revoked {
		if !exp.After(now) {
			delete(b.revoked, jti)
		}
	}
}
