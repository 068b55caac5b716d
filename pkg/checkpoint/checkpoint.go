// Package checkpoint persists the last observed listing count.
//
// The value is stored as its decimal text representation. A missing value
// means the monitor has never been initialized; a value that cannot be read
// back as a non-negative integer is reported as ErrMalformed and must not be
// treated as zero.
package checkpoint

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMalformed      = errors.New("malformed checkpoint")
	ErrUnknownDriver  = errors.New("unknown checkpoint driver")
	ErrMissingAddress = errors.New("checkpoint storage address is required")
)

// Store is the single-value persistence API used by the monitor loop
// and read by the liveness reporter.
type Store interface {
	// Returns persisted count, false if never initialized.
	Load(ctx context.Context) (int, bool, error)
	// Overwrites persisted count.
	Save(ctx context.Context, count int) error
	Close() error
}

func encode(count int) []byte {
	return []byte(strconv.Itoa(count))
}

func decode(data []byte) (int, error) {
	raw := strings.TrimSpace(string(data))

	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, errors.WithMessagef(ErrMalformed, "%q is not a valid count", raw)
	}

	return count, nil
}
