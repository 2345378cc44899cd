package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	redisclient "github.com/cliniscribe/cliniscribe/internal/infrastructure/clients/redis"
	apperrors "github.com/cliniscribe/cliniscribe/pkg/errors"
)

// RedisAdapter implements CacheProvider on Redis. Analysis results are
// keyed by statement text, so repeated transcripts skip the classifier.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a Redis-backed cache adapter.
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

// Get retrieves a cached value. A miss is a NOT_FOUND error.
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NewNotFoundError("cache key not found: "+key, nil)
	}
	if err != nil {
		return nil, apperrors.NewExternalError("failed to get from cache", err)
	}
	return result, nil
}

// Set stores a value with a TTL. expirationSeconds <= 0 means no expiry.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, value, expiration).Err(); err != nil {
		return apperrors.NewExternalError("failed to set in cache", err)
	}
	return nil
}

// Delete removes a cached value.
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return apperrors.NewExternalError("failed to delete from cache", err)
	}
	return nil
}

// Exists reports whether a key is cached.
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.NewExternalError("failed to check existence in cache", err)
	}
	return result > 0, nil
}
