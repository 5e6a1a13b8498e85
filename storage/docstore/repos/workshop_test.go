package docrepos

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/workshop"
)

// flakyStore fails every operation with a network error and counts the
// attempts, so tests can pin which operations get retried.
type flakyStore struct {
	reads, writes, merges int
}

var _ core.DocStore = (*flakyStore)(nil)

func (s *flakyStore) fail(op string) error {
	return core.NewNetworkError(errors.New("connection reset"), op)
}

func (s *flakyStore) Read(ctx context.Context, path string, dest interface{}) error {
	s.reads++
	return s.fail("reading " + path)
}

func (s *flakyStore) Write(ctx context.Context, path string, doc interface{}) error {
	s.writes++
	return s.fail("writing " + path)
}

func (s *flakyStore) Merge(ctx context.Context, path string, fields map[string]interface{}) error {
	s.merges++
	return s.fail("merging " + path)
}

func (s *flakyStore) Delete(ctx context.Context, path string) error {
	return s.fail("deleting " + path)
}

func (s *flakyStore) Scan(ctx context.Context, collection string, dest interface{}) error {
	s.reads++
	return s.fail("scanning " + collection)
}

func (s *flakyStore) ScanWhere(ctx context.Context, collection, field, equals string, dest interface{}) error {
	s.reads++
	return s.fail("scanning " + collection)
}

// Reads retry on network failures; writes and merges never do.
func TestWorkshopRepo_retryPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("reads are retried", func(t *testing.T) {
		store := &flakyStore{}
		_, err := NewWorkshopRepo(store).GetRequestByID(ctx, "wr1")
		require.Error(t, err)
		assert.True(t, core.IsNetworkError(err))
		assert.Equal(t, 3, store.reads)
	})

	t.Run("filter scans are retried", func(t *testing.T) {
		store := &flakyStore{}
		_, err := NewWorkshopRepo(store).FilterRequestsByStatus(ctx, workshop.StatusPending)
		require.Error(t, err)
		assert.Equal(t, 3, store.reads)
	})

	t.Run("writes are attempted exactly once", func(t *testing.T) {
		store := &flakyStore{}
		err := NewWorkshopRepo(store).CreateRequest(ctx, workshop.Request{ID: "wr1"})
		require.Error(t, err)
		assert.True(t, core.IsNetworkError(err))
		assert.Equal(t, 1, store.writes)
	})

	t.Run("merges are attempted exactly once", func(t *testing.T) {
		store := &flakyStore{}
		err := NewWorkshopRepo(store).MergeRequest(ctx, "wr1", map[string]interface{}{"status": "approved"})
		require.Error(t, err)
		assert.Equal(t, 1, store.merges)
	})
}
