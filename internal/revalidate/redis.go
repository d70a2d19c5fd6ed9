package revalidate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix        = "routecache:"
	redisGenerationPrefix = "routecache:gen:"
)

// RedisCache is a RouteCache shared between instances through Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisCacheWithClient(redis.NewClient(opts), ttl), nil
}

// NewRedisCacheWithClient wraps an existing Redis client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Generation returns the current generation of a path; a missing counter is generation 0
func (r *RedisCache) Generation(ctx context.Context, path string) (int64, error) {
	generation, err := r.client.Get(ctx, redisGenerationPrefix+path).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read route cache generation: %w", err)
	}
	return generation, nil
}

// Get returns the cached value for a path and raw query under the current generation
func (r *RedisCache) Get(ctx context.Context, path, query string) ([]byte, bool, error) {
	generation, err := r.Generation(ctx, path)
	if err != nil {
		return nil, false, err
	}

	value, err := r.client.Get(ctx, redisKeyPrefix+routeKey(path, generation, query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read route cache: %w", err)
	}
	return value, true, nil
}

// Set stores a value loaded under generation. The generation is part of the key, so a write
// racing a Revalidate lands under a key no reader looks up.
func (r *RedisCache) Set(ctx context.Context, path, query string, generation int64, value []byte) error {
	current, err := r.Generation(ctx, path)
	if err != nil {
		return err
	}
	if current != generation {
		return nil
	}

	if err := r.client.Set(ctx, redisKeyPrefix+routeKey(path, generation, query), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write route cache: %w", err)
	}
	return nil
}

// Revalidate advances the generation of a path and drops every cached variant of it
func (r *RedisCache) Revalidate(ctx context.Context, path string) error {
	if err := r.client.Incr(ctx, redisGenerationPrefix+path).Err(); err != nil {
		return fmt.Errorf("failed to revalidate %s: %w", path, err)
	}

	var keys []string
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+pathPrefix(path)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan route cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revalidate %s: %w", path, err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
