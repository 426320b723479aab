package identity

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"waybackhome/internal/domain"
	"waybackhome/internal/ports/output"
)

var _ output.RevocationList = (*RedisRevocationList)(nil)

// RedisRevocationList stores revoked token ids in one Redis set so every API
// instance sees a revocation immediately.
type RedisRevocationList struct {
	client *redis.Client
	key    string
}

func NewRedisRevocationList(client *redis.Client, key string) *RedisRevocationList {
	return &RedisRevocationList{client: client, key: key}
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, l.key, tokenID).Result()
	if err != nil {
		return false, domain.ErrUpstreamUnavailable.With(fmt.Errorf("check revocation: %w", err))
	}
	return ok, nil
}

func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string) error {
	if err := l.client.SAdd(ctx, l.key, tokenID).Err(); err != nil {
		return domain.ErrUpstreamUnavailable.With(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}
