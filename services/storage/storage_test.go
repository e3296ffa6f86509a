package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestDiskStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.Put(ctx, "files/abc.jpg", strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	size, err := store.Size(ctx, "files/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)

	r, err := store.Open(ctx, "files/abc.jpg")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestDiskStoreOpenRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "files/range.bin", strings.NewReader("0123456789"))
	require.NoError(t, err)

	r, err := store.OpenRange(ctx, "files/range.bin", 3, 4)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "3456", string(data))
}

func TestDiskStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "files/gone.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "files/gone.txt"))

	_, err = store.Open(ctx, "files/gone.txt")
	assert.Error(t, err)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, "files/gone.txt"))
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "../escape.txt", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.Open(ctx, "files/../../etc/passwd")
	assert.Error(t, err)
}

func TestDiskStorePutCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Put(ctx, "files/cancelled.bin", bytes.NewReader(make([]byte, 1<<20)))
	assert.Error(t, err)

	// A cancelled write must not leave a committed blob behind.
	_, err = store.Open(context.Background(), "files/cancelled.bin")
	assert.Error(t, err)
}
