package feed

import (
	"context"
	"sync"
	"time"

	"github.com/timmy/photofeed/internal/domain"
)

// LocalFeedLoader orchestrates reads, writes, and validation of the cached
// feed snapshot against a FeedStore, applying the age-based cache policy.
//
// The loader never mutates the store on the read path: loading an expired
// snapshot yields an empty feed and leaves the snapshot in place, so reads
// stay repeatable and safe to run in parallel. Expired snapshots are only
// removed by ValidateCache.
type LocalFeedLoader struct {
	store       FeedStore
	currentDate func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewLocalFeedLoader creates a local feed loader.
// Parameters:
//   - store: feed snapshot store.
//   - currentDate: clock function; injected so tests can control time.
// Returns:
//   - *LocalFeedLoader: initialized loader.
func NewLocalFeedLoader(store FeedStore, currentDate func() time.Time) *LocalFeedLoader {
	return &LocalFeedLoader{
		store:       store,
		currentDate: currentDate,
	}
}

// Close marks the loader as released. Operations already waiting on the
// store discard the store's result and return ErrClosed instead; new
// operations fail immediately. Close is idempotent.
// Parameters: none.
// Returns:
//   - error: always nil.
func (l *LocalFeedLoader) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}

func (l *LocalFeedLoader) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Load retrieves the cached feed.
//
// A missing snapshot and an expired snapshot both yield an empty feed;
// store retrieval errors are propagated untranslated.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.FeedImage: cached feed in original order, possibly empty.
//   - error: non-nil if the store retrieval fails or the loader is closed.
func (l *LocalFeedLoader) Load(ctx context.Context) ([]domain.FeedImage, error) {
	if l.isClosed() {
		return nil, ErrClosed
	}

	cached, err := l.store.Retrieve(ctx)
	if l.isClosed() {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return []domain.FeedImage{}, nil
	}
	if !validateTimestamp(cached.Timestamp, l.currentDate()) {
		return []domain.FeedImage{}, nil
	}
	return ToModels(cached.Feed), nil
}

// Save replaces the cached snapshot with the given feed.
//
// Deletion strictly precedes insertion; if the delete fails, the insert is
// never attempted and the deletion error is reported.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - images: feed to cache, stamped with the current time.
// Returns:
//   - error: non-nil if deletion or insertion fails or the loader is closed.
func (l *LocalFeedLoader) Save(ctx context.Context, images []domain.FeedImage) error {
	if l.isClosed() {
		return ErrClosed
	}

	if err := l.store.DeleteCachedFeed(ctx); err != nil {
		if l.isClosed() {
			return ErrClosed
		}
		return err
	}
	if l.isClosed() {
		return ErrClosed
	}

	err := l.store.Insert(ctx, ToLocal(images), l.currentDate())
	if l.isClosed() {
		return ErrClosed
	}
	return err
}

// ValidateCache deletes the cached snapshot when it is expired or when the
// store cannot be read; a valid or absent snapshot is left untouched.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - error: deletion error when a delete was attempted and failed, nil
//     otherwise; ErrClosed if the loader is closed.
func (l *LocalFeedLoader) ValidateCache(ctx context.Context) error {
	if l.isClosed() {
		return ErrClosed
	}

	cached, err := l.store.Retrieve(ctx)
	if l.isClosed() {
		return ErrClosed
	}
	if err != nil {
		return l.deleteCache(ctx)
	}
	if cached != nil && !validateTimestamp(cached.Timestamp, l.currentDate()) {
		return l.deleteCache(ctx)
	}
	return nil
}

func (l *LocalFeedLoader) deleteCache(ctx context.Context) error {
	err := l.store.DeleteCachedFeed(ctx)
	if l.isClosed() {
		return ErrClosed
	}
	return err
}
