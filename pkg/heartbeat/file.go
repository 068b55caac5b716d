package heartbeat

import (
	"context"
	"os"
	"time"

	"cpme_monitor/pkg/utils"

	"github.com/pkg/errors"
)

type fileStore struct {
	path string
}

func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Beat(_ context.Context, at time.Time) error {
	return utils.WriteFileAtomic(s.path, encode(at), 0o644)
}

func (s *fileStore) Last(_ context.Context) (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, errors.Wrapf(err, "failed to read heartbeat %s", s.path)
	}

	at, err := decode(data)
	if err != nil {
		return time.Time{}, false, errors.Wrapf(err, "heartbeat %s", s.path)
	}

	return at, true, nil
}

func (s *fileStore) Close() error {
	return nil
}
