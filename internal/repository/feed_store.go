package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/feed"
	"github.com/timmy/photofeed/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// feedSnapshot is the single-row record carrying the snapshot timestamp.
// The store holds at most one snapshot; inserts replace it.
type feedSnapshot struct {
	ID        int       `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"not null"`
}

// TableName returns the database table name for feedSnapshot.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (feedSnapshot) TableName() string {
	return "feed_snapshots"
}

// feedSnapshotItem is one image entry of the snapshot, position-indexed so
// retrieval preserves the original feed order.
type feedSnapshotItem struct {
	Position    int     `gorm:"primaryKey;autoIncrement:false"`
	ImageID     string  `gorm:"type:text;not null"`
	Description *string `gorm:"type:text"`
	Location    *string `gorm:"type:text"`
	URL         string  `gorm:"type:text;not null"`
}

// TableName returns the database table name for feedSnapshotItem.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (feedSnapshotItem) TableName() string {
	return "feed_snapshot_items"
}

// imageBlob stores cached image bytes keyed by URL, with probed metadata.
type imageBlob struct {
	URL       string `gorm:"primaryKey;type:text"`
	Data      []byte `gorm:"not null"`
	Width     int
	Height    int
	Format    string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the database table name for imageBlob.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (imageBlob) TableName() string {
	return "image_blobs"
}

// GormStore is the durable Cache Store: one feed snapshot plus per-URL
// image blobs, backed by GORM (SQLite or PostgreSQL).
//
// The store owns its serialization: retrievals share a read lock and may
// run concurrently, while inserts and deletes take the write lock and are
// mutually exclusive with every other operation.
type GormStore struct {
	db *gorm.DB
	mu sync.RWMutex
}

// NewGormStore creates a store bound to db.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *GormStore: store instance bound to db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Retrieve returns the stored snapshot, or (nil, nil) when none exists.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *feed.CachedFeed: snapshot with items in original order, or nil.
//   - error: non-nil if the read fails.
func (s *GormStore) Retrieve(ctx context.Context) (*feed.CachedFeed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshot feedSnapshot
	if err := s.db.WithContext(ctx).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var items []feedSnapshotItem
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	images := make([]feed.LocalFeedImage, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ImageID)
		if err != nil {
			return nil, err
		}
		images = append(images, feed.LocalFeedImage{
			ID:          id,
			Description: item.Description,
			Location:    item.Location,
			URL:         item.URL,
		})
	}

	return &feed.CachedFeed{Feed: images, Timestamp: snapshot.Timestamp}, nil
}

// Insert stores a new snapshot, replacing any existing one atomically.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - images: feed items to store, order significant.
//   - timestamp: insertion time recorded with the snapshot.
// Returns:
//   - error: non-nil if the write fails.
func (s *GormStore) Insert(ctx context.Context, images []feed.LocalFeedImage, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&feedSnapshot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&feedSnapshotItem{}).Error; err != nil {
			return err
		}

		if err := tx.Create(&feedSnapshot{ID: 1, Timestamp: timestamp}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}

		records := make([]feedSnapshotItem, 0, len(images))
		for i, img := range images {
			records = append(records, feedSnapshotItem{
				Position:    i,
				ImageID:     img.ID.String(),
				Description: img.Description,
				Location:    img.Location,
				URL:         img.URL,
			})
		}
		return tx.Create(&records).Error
	})
}

// DeleteCachedFeed removes the stored snapshot, if any.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - error: non-nil if the delete fails.
func (s *GormStore) DeleteCachedFeed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&feedSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&feedSnapshotItem{}).Error
	})
}

// RetrieveData returns the cached blob for url, or (nil, nil) when absent.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: image URL the blob is keyed by.
// Returns:
//   - []byte: stored image bytes, or nil on a miss.
//   - error: non-nil if the read fails.
func (s *GormStore) RetrieveData(ctx context.Context, url string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob imageBlob
	if err := s.db.WithContext(ctx).First(&blob, "url = ?", url).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blob.Data, nil
}

// InsertData stores data under url, overwriting on conflict. Image
// dimensions and format are probed for observability; blobs that do not
// decode are still stored.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: image URL to key the blob by.
//   - data: image bytes to store.
// Returns:
//   - error: non-nil if the write fails.
func (s *GormStore) InsertData(ctx context.Context, url string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height, format := probeImageMeta(data)
	logger.With(logger.Fields{
		logger.FieldSize: len(data),
	}).Debug(ctx, "Caching image blob: url=%s, format=%s, %dx%d", url, format, width, height)

	blob := imageBlob{
		URL:    url,
		Data:   data,
		Width:  width,
		Height: height,
		Format: format,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		UpdateAll: true,
	}).Create(&blob).Error
}
