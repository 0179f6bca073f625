package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Redis is the Redis-backed session store, for deployments where sessions
// must survive a process restart.
type Redis struct {
	rdb *redis.Client
}

var _ Store = (*Redis)(nil)

// NewRedis creates a session store on an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Dial connects to addr and returns a session store on the connection.
func Dial(addr string) *Redis {
	return NewRedis(redis.NewClient(&redis.Options{Addr: addr}))
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, keyPrefix+key).Err()
}

// Shutdown closes the underlying client; invoked by container teardown.
func (s *Redis) Shutdown() {
	_ = s.rdb.Close()
}
