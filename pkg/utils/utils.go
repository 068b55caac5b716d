package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Validates given config value against allowed default one.
func GraterOrEqDefOr[T int | time.Duration](val T, defaultVal T) T {
	if val <= defaultVal {
		return defaultVal
	}

	return val
}

// Returns defaultVal when val is the zero value.
func DefOr[T comparable](val T, defaultVal T) T {
	var zero T
	if val == zero {
		return defaultVal
	}

	return val
}

// Splits comma separated list, trims spaces and drops empty items.
func SplitList(raw string) []string {
	items := strings.Split(raw, ",")
	res := make([]string, 0, len(items))

	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}

	return res
}

// Parses either plain seconds ("30") or a duration ("30s", "2m").
func ParseSecondsOrDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid interval %q", value)
	}

	return d, nil
}

// Writes data next to path and renames it over path,
// so readers observe either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file for %s", path)
	}
	tmpName := tmp.Name()

	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, "failed to sync %s", tmpName)
	}
	if err = tmp.Close(); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err = os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to rename %s to %s", tmpName, path)
	}

	return nil
}
