package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2Store keeps blobs in a Backblaze B2 bucket under the same keys the disk
// backend uses. B2 only publishes an object once its writer is closed
// successfully, which gives the same commit-on-success guarantee as the
// disk store's rename.
type B2Store struct {
	client *b2.Client
	bucket *b2.Bucket
}

func NewB2Store(ctx context.Context, keyID, applicationKey, bucketName string) (*B2Store, error) {
	client, err := b2.NewClient(ctx, keyID, applicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}

	return &B2Store{client: client, bucket: bucket}, nil
}

func (s *B2Store) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	w := s.bucket.Object(key).NewWriter(ctx)

	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return 0, fmt.Errorf("failed to upload %s to B2: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to commit %s to B2: %w", key, err)
	}
	return n, nil
}

func (s *B2Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.bucket.Object(key).NewReader(ctx), nil
}

func (s *B2Store) OpenRange(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	return s.bucket.Object(key).NewRangeReader(ctx, offset, length), nil
}

func (s *B2Store) Size(ctx context.Context, key string) (int64, error) {
	attrs, err := s.bucket.Object(key).Attrs(ctx)
	if err != nil {
		return 0, err
	}
	return attrs.Size, nil
}

func (s *B2Store) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !b2.IsNotExist(err) {
		return err
	}
	return nil
}
