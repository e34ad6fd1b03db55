package eventstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRunID = "run-1"

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndRetrieve(t *testing.T) {
	store := newMemoryStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, testRunID, TypeRunStarted, []byte(`{"source":"src"}`), map[string]string{"host": "ci"}))
	require.NoError(t, store.Append(ctx, "other", TypeRunStarted, []byte(`{}`), nil))
	require.NoError(t, store.Append(ctx, testRunID, TypeRunCompleted, []byte(`{"scanned":2}`), nil))

	events, err := store.GetByRunID(ctx, testRunID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, TypeRunStarted, events[0].Type)
	assert.Equal(t, testRunID, events[0].RunID)
	assert.Equal(t, "ci", events[0].Metadata["host"])
	assert.True(t, fixed.Equal(events[0].Timestamp))
	assert.Equal(t, TypeRunCompleted, events[1].Type)
	assert.Nil(t, events[1].Metadata)

	var done RunCompleted
	require.NoError(t, events[1].Decode(&done))
	assert.Equal(t, 2, done.Scanned)
}

func TestSQLiteStore_UnknownRun(t *testing.T) {
	store := newMemoryStore(t)
	events, err := store.GetByRunID(t.Context(), "missing")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSQLiteStore_RecentRuns(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()
	for _, id := range []string{"a", "b", "a", "c"} {
		require.NoError(t, store.Append(ctx, id, TypeRunStarted, nil, nil))
	}

	ids, err := store.RecentRuns(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids)
}

func TestSQLiteStore_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), testRunID, TypeRunStarted, []byte(`{}`), nil))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	events, err := reopened.GetByRunID(t.Context(), testRunID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSQLiteStore_ClosedStoreFails(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Append(context.Background(), testRunID, TypeRunStarted, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventAppendFailed))
}

func TestStoreJournal_Record(t *testing.T) {
	store := newMemoryStore(t)
	j := NewJournal(store)

	require.NoError(t, j.Record(t.Context(), testRunID, TypeDocumentWritten, DocumentWritten{
		File:     "src/operations/string/contain.d",
		Output:   "out/strings/contain.mdx",
		Category: "strings",
	}))

	events, err := store.GetByRunID(t.Context(), testRunID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	var got DocumentWritten
	require.NoError(t, events[0].Decode(&got))
	assert.Equal(t, "strings", got.Category)
}

func TestStoreJournal_UnencodablePayload(t *testing.T) {
	j := NewJournal(newMemoryStore(t))
	err := j.Record(t.Context(), testRunID, TypeRunFailed, make(chan int))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMarshalPayloadFailed))
}

func TestNoopJournal(t *testing.T) {
	var j Journal = NoopJournal{}
	require.NoError(t, j.Record(t.Context(), testRunID, TypeRunStarted, nil))
}
