package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindfeed/internal/observability"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

const redisBackend = "redis"

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// RedisStorage stores each slot as a plain string key under prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage connects to addr, which is either host:port or a
// redis:// URL, and verifies the connection.
func NewRedisStorage(ctx context.Context, addr, prefix string) (*RedisStorage, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	// Servers without CLIENT MAINT_NOTIFICATIONS reject the handshake.
	opts.MaintNotificationsConfig = &maintnotifications.Config{Mode: maintnotifications.ModeDisabled}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStorageFromClient(client, prefix), nil
}

// NewRedisStorageFromClient wraps an existing client.
func NewRedisStorageFromClient(client *redis.Client, prefix string) *RedisStorage {
	client.AddHook(metricsHook{})
	return &RedisStorage{client: client, prefix: prefix}
}

func (r *RedisStorage) key(slot string) string {
	return r.prefix + slot
}

func (r *RedisStorage) Load(ctx context.Context, slot string) ([]byte, error) {
	span, ctx := observability.StartSlotSpan(ctx, redisBackend, "load", slot)
	defer span.End()

	data, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("redis load %s: %w", slot, err)
	}
	return data, nil
}

func (r *RedisStorage) Save(ctx context.Context, slot string, data []byte) error {
	span, ctx := observability.StartSlotSpan(ctx, redisBackend, "save", slot)
	defer span.End()

	if err := r.client.Set(ctx, r.key(slot), data, 0).Err(); err != nil {
		span.SetError(err)
		return fmt.Errorf("redis save %s: %w", slot, err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
