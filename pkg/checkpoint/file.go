package checkpoint

import (
	"context"
	"os"

	"cpme_monitor/pkg/utils"

	"github.com/pkg/errors"
)

// FileStore keeps the checkpoint in a small text file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (int, bool, error) {
	_ = ctx

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "failed to read checkpoint %s", s.path)
	}

	count, err := decode(data)
	if err != nil {
		return 0, false, errors.Wrapf(err, "checkpoint %s", s.path)
	}

	return count, true, nil
}

func (s *FileStore) Save(ctx context.Context, count int) error {
	_ = ctx

	return utils.WriteFileAtomic(s.path, encode(count), 0o644)
}

func (s *FileStore) Close() error {
	return nil
}
