package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"fitChallengeAPI/internal/metrics"
)

// Redis is a Cache shared by every API instance. Each tag is a SET of the
// keys stored under it.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// DialRedis parses a redis:// URL and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func tagSetKey(tag string) string {
	return "tag:" + tag
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, r.ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagSetKey(tag), key)
		pipe.Expire(ctx, tagSetKey(tag), 2*r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := r.client.SMembers(ctx, tagSetKey(tag)).Result()
		if err != nil {
			return err
		}

		keys = append(keys, tagSetKey(tag))
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}
