package feed

import (
	"context"
	"sync"
)

// LocalImageDataLoader reads and writes per-URL image blobs against an
// ImageDataStore. Image blobs are treated as content-addressed by URL and
// never expire by age.
type LocalImageDataLoader struct {
	store ImageDataStore

	mu     sync.Mutex
	closed bool
}

// NewLocalImageDataLoader creates a local image data loader.
// Parameters:
//   - store: image blob store.
// Returns:
//   - *LocalImageDataLoader: initialized loader.
func NewLocalImageDataLoader(store ImageDataStore) *LocalImageDataLoader {
	return &LocalImageDataLoader{store: store}
}

// Close marks the loader as released; see LocalFeedLoader.Close.
// Parameters: none.
// Returns:
//   - error: always nil.
func (l *LocalImageDataLoader) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}

func (l *LocalImageDataLoader) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// LoadData retrieves the cached blob for url.
//
// A missing blob is reported as ErrImageDataNotFound rather than an empty
// value so that a fallback composite layered on top gets triggered.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: image URL the blob is keyed by.
// Returns:
//   - []byte: cached image bytes.
//   - error: ErrImageDataNotFound on a miss, the store error on failure,
//     ErrClosed after Close.
func (l *LocalImageDataLoader) LoadData(ctx context.Context, url string) ([]byte, error) {
	if l.isClosed() {
		return nil, ErrClosed
	}

	data, err := l.store.RetrieveData(ctx, url)
	if l.isClosed() {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrImageDataNotFound
	}
	return data, nil
}

// Save stores data under url, overwriting any existing blob.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: image URL to key the blob by.
//   - data: image bytes to store.
// Returns:
//   - error: non-nil if the insert fails or the loader is closed.
func (l *LocalImageDataLoader) Save(ctx context.Context, url string, data []byte) error {
	if l.isClosed() {
		return ErrClosed
	}

	err := l.store.InsertData(ctx, url, data)
	if l.isClosed() {
		return ErrClosed
	}
	return err
}
