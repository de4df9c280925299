package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "campusbites"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore backs the localstore slots with Redis for deployments where the
// client process does not own a stable filesystem.
type RedisStore struct {
	store cmdable
	raw   *redis.Client
}

// NewRedisStore parses the configured URL, applies pool and timeout settings,
// and verifies connectivity before returning.
func NewRedisStore(ctx context.Context, cfg config.StateConfig) (*RedisStore, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis url required for redis state backend")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if cfg.RedisPoolSize > 0 {
		opts.PoolSize = cfg.RedisPoolSize
	}
	opts.DialTimeout = cfg.RedisDialTimeout
	opts.ReadTimeout = cfg.RedisReadTimeout
	opts.WriteTimeout = cfg.RedisWriteTimeout

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw}, nil
}

func slotKey(slot string) string {
	return fmt.Sprintf("%s:slot:%s", keyNamespace, slot)
}

func (r *RedisStore) Get(ctx context.Context, slot string) ([]byte, error) {
	data, err := r.store.Get(ctx, slotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", slot, err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, slot string, data []byte) error {
	if err := r.store.Set(ctx, slotKey(slot), data, 0).Err(); err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := r.store.Del(ctx, slotKey(slot)).Err(); err != nil {
		return fmt.Errorf("deleting slot %s: %w", slot, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}
