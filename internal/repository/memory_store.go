package repository

import (
	"context"
	"sync"
	"time"

	"github.com/timmy/photofeed/internal/feed"
)

// MemoryStore is an in-memory Cache Store with the same readers-writer
// discipline as GormStore. It backs tests and the cacheless dev mode.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot *feed.CachedFeed
	blobs    map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
// Parameters: none.
// Returns:
//   - *MemoryStore: initialized store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: map[string][]byte{}}
}

// Retrieve returns a copy of the stored snapshot, or (nil, nil) when none
// exists.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *feed.CachedFeed: snapshot copy, or nil.
//   - error: always nil.
func (s *MemoryStore) Retrieve(ctx context.Context) (*feed.CachedFeed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, nil
	}
	images := make([]feed.LocalFeedImage, len(s.snapshot.Feed))
	copy(images, s.snapshot.Feed)
	return &feed.CachedFeed{Feed: images, Timestamp: s.snapshot.Timestamp}, nil
}

// Insert stores a new snapshot, replacing any existing one.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - images: feed items to store, order significant.
//   - timestamp: insertion time recorded with the snapshot.
// Returns:
//   - error: always nil.
func (s *MemoryStore) Insert(ctx context.Context, images []feed.LocalFeedImage, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]feed.LocalFeedImage, len(images))
	copy(stored, images)
	s.snapshot = &feed.CachedFeed{Feed: stored, Timestamp: timestamp}
	return nil
}

// DeleteCachedFeed removes the stored snapshot, if any.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - error: always nil.
func (s *MemoryStore) DeleteCachedFeed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = nil
	return nil
}

// RetrieveData returns the blob for url, or (nil, nil) when absent.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: image URL the blob is keyed by.
// Returns:
//   - []byte: stored image bytes, or nil on a miss.
//   - error: always nil.
func (s *MemoryStore) RetrieveData(ctx context.Context, url string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[url]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// InsertData stores data under url, overwriting on conflict.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: image URL to key the blob by.
//   - data: image bytes to store.
// Returns:
//   - error: always nil.
func (s *MemoryStore) InsertData(ctx context.Context, url string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[url] = stored
	return nil
}
