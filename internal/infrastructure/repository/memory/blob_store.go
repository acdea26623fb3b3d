package memory

import (
	"context"
	"sync"
)

// BlobStore holds rendered images in process memory. It mirrors the bucket
// URL layout so media rewriting behaves the same in local development.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Put(_ context.Context, path string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (s *BlobStore) ObjectURL(path string) string {
	return "https://storage.googleapis.com/captcha-race-dev/" + path
}

func (s *BlobStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[path]
	return data, ok
}
