package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis server. Keys are namespaced as
// user:<id>:<field>; every write re-arms the key's TTL so an abandoned
// dialogue evaporates on its own.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server at addr (host:port).
// A zero ttl falls back to DefaultTTL.
func NewRedis(addr string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping verifies the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Put(ctx context.Context, userID int64, field, value string) error {
	return r.client.Set(ctx, key(userID, field), value, r.ttl).Err()
}

func (r *Redis) Get(ctx context.Context, userID int64, field string) (string, error) {
	value, err := r.client.Get(ctx, key(userID, field)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *Redis) AppendList(ctx context.Context, userID int64, field, value string) error {
	k := key(userID, field)
	if err := r.client.RPush(ctx, k, value).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, k, r.ttl).Err()
}

func (r *Redis) GetList(ctx context.Context, userID int64, field string) ([]string, error) {
	return r.client.LRange(ctx, key(userID, field), 0, -1).Result()
}

func (r *Redis) Clear(ctx context.Context, userID int64) error {
	keys, err := r.client.Keys(ctx, fmt.Sprintf("user:%d:*", userID)).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func key(userID int64, field string) string {
	return fmt.Sprintf("user:%d:%s", userID, field)
}
