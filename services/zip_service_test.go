package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"galleryshare/models"
	"galleryshare/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestZipService(t *testing.T) *ZipService {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return &ZipService{store: store}
}

func archiveEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := map[string]string{}
	for _, f := range zr.File {
		r, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		r.Close()
		entries[f.Name] = string(content)
	}
	return entries
}

// A file whose blob vanished from storage is skipped; the rest of the bundle
// still arrives intact.
func TestWriteArchiveSkipsFilesMissingFromStorage(t *testing.T) {
	svc := newTestZipService(t)
	ctx := context.Background()

	files := []models.File{
		{Name: "a.jpg", StoredName: "a-stored.jpg"},
		{Name: "b.jpg", StoredName: "b-stored.jpg"},
		{Name: "c.jpg", StoredName: "c-stored.jpg"},
	}
	_, err := svc.store.Put(ctx, originalKey("a-stored.jpg"), strings.NewReader("alpha"))
	require.NoError(t, err)
	_, err = svc.store.Put(ctx, originalKey("c-stored.jpg"), strings.NewReader("gamma"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.writeArchive(ctx, &buf, files))

	assert.Equal(t, map[string]string{"a.jpg": "alpha", "c.jpg": "gamma"}, archiveEntries(t, buf.Bytes()))
}

// lazyOpenStore mimics object-store backends whose readers never fail at
// Open, only at the first Read of a missing blob.
type lazyOpenStore struct {
	blobs map[string][]byte
}

func (s *lazyOpenStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.blobs[key] = data
	return int64(len(data)), nil
}

func (s *lazyOpenStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(&lazyBlobReader{store: s, key: key}), nil
}

func (s *lazyOpenStore) OpenRange(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	return s.Open(ctx, key)
}

func (s *lazyOpenStore) Size(ctx context.Context, key string) (int64, error) {
	data, ok := s.blobs[key]
	if !ok {
		return 0, os.ErrNotExist
	}
	return int64(len(data)), nil
}

func (s *lazyOpenStore) Delete(ctx context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}

type lazyBlobReader struct {
	store  *lazyOpenStore
	key    string
	offset int
}

func (r *lazyBlobReader) Read(p []byte) (int, error) {
	data, ok := r.store.blobs[r.key]
	if !ok {
		return 0, errors.New("blob not found")
	}
	if r.offset >= len(data) {
		return 0, io.EOF
	}
	n := copy(p, data[r.offset:])
	r.offset += n
	return n, nil
}

// The missing-blob skip must hold even when Open succeeds unconditionally:
// detecting the gap mid-entry would abort the whole archive.
func TestWriteArchiveSkipsMissingBlobOnLazyBackend(t *testing.T) {
	store := &lazyOpenStore{blobs: map[string][]byte{
		originalKey("a-stored.jpg"): []byte("alpha"),
		originalKey("c-stored.jpg"): []byte("gamma"),
	}}
	svc := &ZipService{store: store}

	files := []models.File{
		{Name: "a.jpg", StoredName: "a-stored.jpg"},
		{Name: "b.jpg", StoredName: "b-stored.jpg"},
		{Name: "c.jpg", StoredName: "c-stored.jpg"},
	}

	var buf bytes.Buffer
	require.NoError(t, svc.writeArchive(context.Background(), &buf, files))

	assert.Equal(t, map[string]string{"a.jpg": "alpha", "c.jpg": "gamma"}, archiveEntries(t, buf.Bytes()))
}

func TestWriteArchiveSuffixesDuplicateNames(t *testing.T) {
	svc := newTestZipService(t)
	ctx := context.Background()

	files := []models.File{
		{Name: "photo.jpg", StoredName: "one.jpg"},
		{Name: "photo.jpg", StoredName: "two.jpg"},
	}
	_, err := svc.store.Put(ctx, originalKey("one.jpg"), strings.NewReader("first"))
	require.NoError(t, err)
	_, err = svc.store.Put(ctx, originalKey("two.jpg"), strings.NewReader("second"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.writeArchive(ctx, &buf, files))

	assert.Equal(t, map[string]string{"photo.jpg": "first", "photo.jpg (1)": "second"}, archiveEntries(t, buf.Bytes()))
}
