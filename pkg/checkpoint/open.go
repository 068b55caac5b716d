package checkpoint

import (
	"strings"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

const (
	DriverFile  = "file"
	DriverRedis = "redis"
)

// Storage config.
//
// Driver values:
//   - "file": text file at Path (default)
//   - "redis": single key on the server at RedisURL
type Config struct {
	Driver   string
	Path     string
	RedisURL string
}

// Opens the configured store.
func Open(cfg Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case "", DriverFile:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, errors.WithMessage(ErrMissingAddress, "path is empty")
		}
		return NewFileStore(cfg.Path), nil

	case DriverRedis:
		rdb, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb, DefaultRedisKey), nil

	default:
		return nil, errors.WithMessagef(ErrUnknownDriver, "%q", cfg.Driver)
	}
}

func NewRedisClient(redisURL string) (*redis.Client, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, errors.WithMessage(ErrMissingAddress, "redis url is empty")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse redis url %s", redisURL)
	}

	return redis.NewClient(opt), nil
}
