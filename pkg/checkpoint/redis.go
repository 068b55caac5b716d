package checkpoint

import (
	"context"

	"cpme_monitor/pkg/id"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

var DefaultRedisKey = id.Key{Namespace: "cpme", Name: "checkpoint"}

// RedisStore keeps the checkpoint under a single redis key.
type RedisStore struct {
	rdb *redis.Client
	key id.Key
}

func NewRedisStore(rdb *redis.Client, key id.Key) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (int, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "failed redis:get %s", s.key)
	}

	count, err := decode([]byte(raw))
	if err != nil {
		return 0, false, errors.Wrapf(err, "redis key %s", s.key)
	}

	return count, true, nil
}

func (s *RedisStore) Save(ctx context.Context, count int) error {
	if err := s.rdb.Set(ctx, s.key.String(), encode(count), 0).Err(); err != nil {
		return errors.Wrapf(err, "failed redis:set %s %d", s.key, count)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
