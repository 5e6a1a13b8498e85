package inmemstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tspagiari/oficinas/core"
)

type doc struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := New()

	var got doc
	err := s.Read(ctx, "things/t1", &got)
	assert.Equal(t, core.ErrDocAbsent, err)

	want := doc{ID: "t1", Name: "one", Status: "pending"}
	require.NoError(t, s.Write(ctx, "things/t1", want))

	require.NoError(t, s.Read(ctx, "things/t1", &got))
	assert.Equal(t, want, got)

	// overwrite
	want.Name = "uno"
	require.NoError(t, s.Write(ctx, "things/t1", want))
	require.NoError(t, s.Read(ctx, "things/t1", &got))
	assert.Equal(t, "uno", got.Name)
}

func TestStore_Merge(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Write(ctx, "things/t1", doc{ID: "t1", Name: "one", Status: "pending"}))
	require.NoError(t, s.Merge(ctx, "things/t1", map[string]interface{}{"status": "approved"}))

	var got doc
	require.NoError(t, s.Read(ctx, "things/t1", &got))
	assert.Equal(t, "approved", got.Status)
	assert.Equal(t, "one", got.Name) // untouched

	// merging an absent path upserts
	require.NoError(t, s.Merge(ctx, "things/t2", map[string]interface{}{"id": "t2", "status": "pending"}))
	require.NoError(t, s.Read(ctx, "things/t2", &got))
	assert.Equal(t, "pending", got.Status)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Write(ctx, "things/t1", doc{ID: "t1"}))
	require.NoError(t, s.Delete(ctx, "things/t1"))
	assert.Equal(t, core.ErrDocAbsent, s.Read(ctx, "things/t1", new(doc)))

	// deleting an absent path is a no-op
	require.NoError(t, s.Delete(ctx, "things/t1"))
}

func TestStore_Scan(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Write(ctx, "things/t1", doc{ID: "t1", Status: "pending"}))
	require.NoError(t, s.Write(ctx, "things/t2", doc{ID: "t2", Status: "approved"}))
	require.NoError(t, s.Write(ctx, "others/o1", doc{ID: "o1", Status: "pending"}))

	docs := make([]doc, 0)
	require.NoError(t, s.Scan(ctx, "things", &docs))
	assert.Len(t, docs, 2)

	docs = docs[:0]
	require.NoError(t, s.ScanWhere(ctx, "things", "status", "pending", &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "t1", docs[0].ID)

	docs = docs[:0]
	require.NoError(t, s.ScanWhere(ctx, "things", "status", "rejected", &docs))
	assert.Empty(t, docs)
}
