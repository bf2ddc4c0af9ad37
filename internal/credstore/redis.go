package credstore

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// RedisStore keeps credential entries in redis, for deployments where the
// client core runs server-side and sessions are shared across processes.
type RedisStore struct {
	kv        redisKV
	namespace string
}

// NewRedisStore wraps an established redis client. Keys are namespaced so
// several client installations can share one database.
func NewRedisStore(kv redisKV, namespace string) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if namespace == "" {
		namespace = "shop"
	}
	return &RedisStore{kv: kv, namespace: namespace}, nil
}

func (s *RedisStore) namespaced(key string) string {
	return s.namespace + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.kv.Get(ctx, s.namespaced(key))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", notFound(key)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read credential entry")
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.kv.Set(ctx, s.namespaced(key), value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write credential entry")
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.kv.Del(ctx, s.namespaced(key)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove credential entry")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.kv.Close()
}
