package gcs

import (
	"context"

	"cloud.google.com/go/storage"
	crerr "github.com/cockroachdb/errors"
)

const publicHost = "https://storage.googleapis.com"

// Store writes rendered captcha images into one Cloud Storage bucket.
type Store struct {
	bucket string
	client *storage.Client
}

func NewStore(ctx context.Context, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, crerr.New("gcs bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "create gcs client")
	}

	return &Store{bucket: bucket, client: client}, nil
}

func (s *Store) Put(ctx context.Context, path string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return crerr.Wrapf(err, "write object %q", path)
	}
	if err := w.Close(); err != nil {
		return crerr.Wrapf(err, "close object %q", path)
	}
	return nil
}

func (s *Store) ObjectURL(path string) string {
	return publicHost + "/" + s.bucket + "/" + path
}

func (s *Store) Close() error {
	return s.client.Close()
}
