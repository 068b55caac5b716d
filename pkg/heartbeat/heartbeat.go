// Package heartbeat records when the monitor loop last ran an iteration.
//
// The liveness reporter classifies the process as healthy while the latest
// beat is younger than a staleness threshold. Beats are written once per
// loop iteration regardless of whether the listing count changed, so a
// stable count never looks like a stalled process.
package heartbeat

import (
	"context"
	"strings"
	"time"

	"cpme_monitor/pkg/checkpoint"
	"cpme_monitor/pkg/id"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

var ErrMalformed = errors.New("malformed heartbeat")

var DefaultRedisKey = id.Key{Namespace: "cpme", Name: "heartbeat"}

type Store interface {
	Beat(ctx context.Context, at time.Time) error
	// Returns the latest beat, false if none was recorded yet.
	Last(ctx context.Context) (time.Time, bool, error)
	Close() error
}

func encode(at time.Time) []byte {
	return []byte(at.UTC().Format(time.RFC3339Nano))
}

func decode(data []byte) (time.Time, error) {
	raw := strings.TrimSpace(string(data))

	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errors.WithMessagef(ErrMalformed, "%q", raw)
	}

	return at, nil
}

// Opens heartbeat storage next to the checkpoint, using the same driver.
func Open(cfg checkpoint.Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", checkpoint.DriverFile:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, errors.WithMessage(checkpoint.ErrMissingAddress, "heartbeat path is empty")
		}
		return NewFileStore(cfg.Path), nil

	case checkpoint.DriverRedis:
		rdb, err := checkpoint.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb, DefaultRedisKey), nil

	default:
		return nil, errors.WithMessagef(checkpoint.ErrUnknownDriver, "%q", cfg.Driver)
	}
}

// Reports whether the latest beat is fresh at now.
func Fresh(last time.Time, now time.Time, staleAfter time.Duration) bool {
	return now.Sub(last) < staleAfter
}

type redisStore struct {
	rdb *redis.Client
	key id.Key
}

func NewRedisStore(rdb *redis.Client, key id.Key) Store {
	return &redisStore{rdb: rdb, key: key}
}

func (s *redisStore) Beat(ctx context.Context, at time.Time) error {
	if err := s.rdb.Set(ctx, s.key.String(), encode(at), 0).Err(); err != nil {
		return errors.Wrapf(err, "failed redis:set %s", s.key)
	}

	return nil
}

func (s *redisStore) Last(ctx context.Context) (time.Time, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, errors.Wrapf(err, "failed redis:get %s", s.key)
	}

	at, err := decode([]byte(raw))
	if err != nil {
		return time.Time{}, false, err
	}

	return at, true, nil
}

func (s *redisStore) Close() error {
	return s.rdb.Close()
}
