package feed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
)

// ErrClosed is returned by loader operations after Close has been called.
// Results of store operations still in flight at close time are discarded.
var ErrClosed = errors.New("feed: loader is closed")

// ErrImageDataNotFound is returned by LocalImageDataLoader when no blob is
// cached for the requested URL. Absence is a first-class failure for image
// data (unlike the feed snapshot, where absence means an empty feed) so a
// fallback layer downstream gets triggered.
var ErrImageDataNotFound = errors.New("feed: image data not found")

// LocalFeedImage is the storable representation of domain.FeedImage.
// The two are losslessly convertible in both directions; keeping them
// separate stops persistence concerns from leaking into domain code.
type LocalFeedImage struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	URL         string
}

// CachedFeed is the single snapshot a FeedStore holds: the stored feed
// plus the time it was inserted.
type CachedFeed struct {
	Feed      []LocalFeedImage
	Timestamp time.Time
}

// FeedStore is the persistence boundary for the feed snapshot.
//
// Implementations own their internal serialization: retrievals may run
// concurrently with each other, while Insert and DeleteCachedFeed must be
// mutually exclusive with all other operations on the same store.
type FeedStore interface {
	// Retrieve returns the current snapshot, or (nil, nil) when no
	// snapshot is stored.
	Retrieve(ctx context.Context) (*CachedFeed, error)

	// Insert stores a new snapshot, replacing any existing one.
	Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time) error

	// DeleteCachedFeed removes the stored snapshot, if any.
	DeleteCachedFeed(ctx context.Context) error
}

// ImageDataStore is the persistence boundary for per-URL image blobs.
// Blob lifecycle is independent from the feed snapshot.
type ImageDataStore interface {
	// RetrieveData returns the blob for url, or (nil, nil) when absent.
	RetrieveData(ctx context.Context, url string) ([]byte, error)

	// InsertData stores data under url, overwriting on conflict.
	InsertData(ctx context.Context, url string, data []byte) error
}

// ToLocal converts domain feed images to their storable representation.
// Parameters:
//   - images: domain feed images.
// Returns:
//   - []LocalFeedImage: storable twins, order preserved.
func ToLocal(images []domain.FeedImage) []LocalFeedImage {
	local := make([]LocalFeedImage, 0, len(images))
	for _, img := range images {
		local = append(local, LocalFeedImage{
			ID:          img.ID,
			Description: img.Description,
			Location:    img.Location,
			URL:         img.URL,
		})
	}
	return local
}

// ToModels converts storable feed images back to the domain representation.
// Parameters:
//   - local: storable feed images.
// Returns:
//   - []domain.FeedImage: domain twins, order preserved.
func ToModels(local []LocalFeedImage) []domain.FeedImage {
	images := make([]domain.FeedImage, 0, len(local))
	for _, img := range local {
		images = append(images, domain.FeedImage{
			ID:          img.ID,
			Description: img.Description,
			Location:    img.Location,
			URL:         img.URL,
		})
	}
	return images
}
