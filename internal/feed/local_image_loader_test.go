package feed

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
)

// imageStoreSpy stubs ImageDataStore with per-URL blobs.
type imageStoreSpy struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	messages []string

	retrieveErr error
	insertErr   error
}

func newImageStoreSpy() *imageStoreSpy {
	return &imageStoreSpy{blobs: map[string][]byte{}}
}

func (s *imageStoreSpy) RetrieveData(ctx context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	s.messages = append(s.messages, "retrieve "+url)
	data := s.blobs[url]
	s.mu.Unlock()
	if s.retrieveErr != nil {
		return nil, s.retrieveErr
	}
	return data, nil
}

func (s *imageStoreSpy) InsertData(ctx context.Context, url string, data []byte) error {
	s.mu.Lock()
	s.messages = append(s.messages, "insert "+url)
	s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	s.blobs[url] = data
	s.mu.Unlock()
	return nil
}

func TestLoadDataFailsWithNotFoundOnMiss(t *testing.T) {
	store := newImageStoreSpy()
	loader := NewLocalImageDataLoader(store)

	if _, err := loader.LoadData(context.Background(), "https://example.com/a.jpg"); !errors.Is(err, ErrImageDataNotFound) {
		t.Errorf("expected ErrImageDataNotFound, got %v", err)
	}
}

func TestLoadDataDeliversStoredBlob(t *testing.T) {
	store := newImageStoreSpy()
	store.blobs["https://example.com/a.jpg"] = []byte{0x1, 0x2, 0x3}
	loader := NewLocalImageDataLoader(store)

	got, err := loader.LoadData(context.Background(), "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x1, 0x2, 0x3}) {
		t.Errorf("got %v, want stored blob", got)
	}
}

func TestLoadDataPropagatesStoreError(t *testing.T) {
	store := newImageStoreSpy()
	store.retrieveErr = errStore
	loader := NewLocalImageDataLoader(store)

	if _, err := loader.LoadData(context.Background(), "u"); !errors.Is(err, errStore) {
		t.Errorf("expected %v, got %v", errStore, err)
	}
}

func TestSaveOverwritesExistingBlob(t *testing.T) {
	store := newImageStoreSpy()
	loader := NewLocalImageDataLoader(store)
	url := "https://example.com/a.jpg"

	if err := loader.Save(context.Background(), url, []byte("old")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := loader.Save(context.Background(), url, []byte("new")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := loader.LoadData(context.Background(), url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("got %q, want %q", got, "new")
	}
}

func TestImageLoaderFailsAfterClose(t *testing.T) {
	store := newImageStoreSpy()
	store.blobs["u"] = []byte("data")
	loader := NewLocalImageDataLoader(store)
	loader.Close()

	if _, err := loader.LoadData(context.Background(), "u"); !errors.Is(err, ErrClosed) {
		t.Errorf("LoadData: expected ErrClosed, got %v", err)
	}
	if err := loader.Save(context.Background(), "u", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Save: expected ErrClosed, got %v", err)
	}
}
