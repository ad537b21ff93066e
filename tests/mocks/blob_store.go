package mocks

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/amize/amize-backend/internal/domain/profile"
)

type StoredObject struct {
	Key         string
	ContentType string
	Data        []byte
}

type BlobStore struct {
	mu        sync.Mutex
	baseURL   string
	objects   map[string]StoredObject
	uploadErr error
	// failAfter fails uploads once this many succeeded; negative disables it.
	failAfter int
	stall     bool
}

func NewBlobStore() *BlobStore {
	return &BlobStore{
		baseURL:   "https://cdn.amize.test",
		objects:   make(map[string]StoredObject),
		failAfter: -1,
	}
}

func (s *BlobStore) FailWith(err error) *BlobStore {
	return s.FailAfter(0, err)
}

// FailAfter lets n uploads succeed and fails the rest with err.
func (s *BlobStore) FailAfter(n int, err error) *BlobStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	s.uploadErr = err
	return s
}

// Stall makes uploads hang until their context is done.
func (s *BlobStore) Stall() *BlobStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stall = true
	return s
}

func (s *BlobStore) Upload(ctx context.Context, folder string, r io.Reader, size int64, contentType string) (string, string, error) {
	s.mu.Lock()
	stall := s.stall
	s.mu.Unlock()
	if stall {
		<-ctx.Done()
		return "", "", fmt.Errorf("put object: %w", ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAfter == 0 {
		return "", "", s.uploadErr
	}
	if s.failAfter > 0 {
		s.failAfter--
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}

	key := path.Join(folder, uuid.NewString()+profile.MediaExtension(contentType))
	s.objects[key] = StoredObject{Key: key, ContentType: contentType, Data: data}

	return key, fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *BlobStore) Objects() []StoredObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StoredObject, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, o)
	}
	return out
}

func (s *BlobStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[string]StoredObject)
	s.uploadErr = nil
	s.failAfter = -1
	s.stall = false
}
