package checkpoint

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"pinstats/internal/structures"
)

const redisOpTimeout = 5 * time.Second

// RedisKV satisfies the key-value boundary with a redis backend, for
// deployments where the pipeline host has no durable filesystem.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisKV(conf *structures.Config) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr: conf.Checkpoint.RedisAddr,
		DB:   conf.Checkpoint.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisKV{
		client: client,
		ttl:    conf.Checkpoint.RedisTTL,
	}, nil
}

func (r *RedisKV) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisKV) Put(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *RedisKV) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Del(ctx, key).Err()
}
