package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/timmy/photofeed/internal/logger"
)

// ObjectImageDataStore persists image blobs in object storage, keyed by a
// digest of the source URL.
type ObjectImageDataStore struct {
	storage ObjectStorage
	prefix  string
}

// NewObjectImageDataStore creates an image data store backed by object storage.
// Parameters:
//   - storage: the underlying object storage client.
//   - prefix: key prefix under which blobs are stored (e.g. "images").
// Returns:
//   - *ObjectImageDataStore: initialized store.
func NewObjectImageDataStore(storage ObjectStorage, prefix string) *ObjectImageDataStore {
	return &ObjectImageDataStore{storage: storage, prefix: prefix}
}

// key derives a stable object key from the image URL
func (s *ObjectImageDataStore) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return path.Join(s.prefix, hex.EncodeToString(sum[:]))
}

// RetrieveData fetches the stored blob for a URL.
// Returns (nil, nil) when no blob has been stored for the URL.
func (s *ObjectImageDataStore) RetrieveData(ctx context.Context, url string) ([]byte, error) {
	key := s.key(url)

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check blob existence: %w", err)
	}
	if !exists {
		return nil, nil
	}

	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return data, nil
}

// InsertData stores the blob for a URL, overwriting any previous blob.
func (s *ObjectImageDataStore) InsertData(ctx context.Context, url string, data []byte) error {
	key := s.key(url)
	contentType := http.DetectContentType(data)

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return fmt.Errorf("failed to upload blob: %w", err)
	}

	logger.CtxDebug(ctx, "Stored image blob: url=%s key=%s size=%d type=%s", url, key, len(data), contentType)
	return nil
}
