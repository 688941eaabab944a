// Package redis adapts a go-redis client to the core.KeyValue port.
// INCR and EXPIRE map to the server's atomic primitives, which the rate
// limiter relies on under concurrent attempts from one client.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jrlim/moat/core"
)

type Adapter struct {
	client *redis.Client
}

var _ core.KeyValue = (*Adapter)(nil)

func New(client *redis.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Get(ctx context.Context, key string) (string, error) {
	value, err := a.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (a *Adapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return a.client.Set(ctx, key, value, ttl).Err()
}

func (a *Adapter) Incr(ctx context.Context, key string) (int64, error) {
	return a.client.Incr(ctx, key).Result()
}

func (a *Adapter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return a.client.Expire(ctx, key, ttl).Err()
}

func (a *Adapter) Del(ctx context.Context, key string) error {
	return a.client.Del(ctx, key).Err()
}
