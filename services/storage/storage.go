// Package storage abstracts where original uploads and their derivatives
// live. The default backend is the local filesystem; a Backblaze B2 backend
// is available for deployments without local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore stores blobs under flat, slash-separated keys
// ("files/<id>.jpg", "thumbnails/<id>.jpg", "previews/<id>.jpg").
type BlobStore interface {
	// Put streams r into the blob at key and returns the byte count. The blob
	// must not be observable under key until Put returns nil: a cancelled or
	// failed write leaves no partial blob behind.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader over the whole blob. os.ErrNotExist-compatible
	// errors signal a missing blob.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// OpenRange returns a reader over length bytes starting at offset.
	// length < 0 means "to the end".
	OpenRange(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error)

	// Size returns the stored size of the blob.
	Size(ctx context.Context, key string) (int64, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, key string) error
}

// DiskStore keeps blobs under a root directory. Writes go to a temp file in
// the target directory and are renamed into place on success, so readers
// never observe a half-written blob.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	for _, dir := range []string{root, filepath.Join(root, "files"), filepath.Join(root, "thumbnails"), filepath.Join(root, "previews")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *DiskStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	dst, err := s.path(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	n, err := copyWithContext(ctx, tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, err
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	return n, nil
}

func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *DiskStore) OpenRange(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	if length < 0 {
		return f, nil
	}
	return &limitedReadCloser{Reader: io.LimitReader(f, length), closer: f}, nil
}

func (s *DiskStore) Size(ctx context.Context, key string) (int64, error) {
	p, err := s.path(key)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

type limitedReadCloser struct {
	io.Reader
	closer io.Closer
}

func (l *limitedReadCloser) Close() error { return l.closer.Close() }

// copyWithContext copies in chunks, checking for cancellation between chunks
// so a disconnected client aborts the write promptly.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 256*1024)
	var written int64
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
