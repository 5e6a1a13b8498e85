package core

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrDocAbsent is returned by DocStore.Read when no document lives at
// the given path.
var ErrDocAbsent = errors.New("document absent")

// DocStore is the path-addressed document store capability the domain
// services persist through. Documents are JSON values; paths are
// "{collection}/{id}". Merge is a shallow field merge and behaves as
// an upsert: it does not verify the document exists first. ScanWhere
// does an equality-filtered scan over a top-level child field.
//
// Concurrent writes to the same path are resolved last-write-wins by
// the backing store; no locking happens at this level.
type DocStore interface {
	Read(ctx context.Context, path string, dest interface{}) error
	Write(ctx context.Context, path string, doc interface{}) error
	Merge(ctx context.Context, path string, fields map[string]interface{}) error
	Delete(ctx context.Context, path string) error
	Scan(ctx context.Context, collection string, dest interface{}) error
	ScanWhere(ctx context.Context, collection, field, equals string, dest interface{}) error
}

const (
	readAttempts    = 3
	readBackoffBase = 100 * time.Millisecond
)

// ReadRetry runs fn, retrying with bounded exponential backoff as long
// as it keeps failing with a NetworkError. Only read operations may go
// through here: retrying a write risks duplicate creation under the
// random-identifier scheme.
func ReadRetry(ctx context.Context, fn func() error) error {
	backoff := readBackoffBase
	var err error
	for attempt := 0; attempt < readAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err = fn(); !IsNetworkError(err) {
			return err
		}
	}
	return err
}
