package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
	"github.com/timmy/photofeed/internal/feed"
)

type feedStoreSpy struct {
	mu      sync.Mutex
	cached  *feed.CachedFeed
	inserts [][]feed.LocalFeedImage
	deletes int
}

func (s *feedStoreSpy) Retrieve(ctx context.Context) (*feed.CachedFeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		return nil, nil
	}
	snapshot := *s.cached
	return &snapshot, nil
}

func (s *feedStoreSpy) Insert(ctx context.Context, images []feed.LocalFeedImage, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts = append(s.inserts, images)
	s.cached = &feed.CachedFeed{Feed: images, Timestamp: timestamp}
	return nil
}

func (s *feedStoreSpy) DeleteCachedFeed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	s.cached = nil
	return nil
}

func (s *feedStoreSpy) lastInsert() []feed.LocalFeedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inserts) == 0 {
		return nil
	}
	return s.inserts[len(s.inserts)-1]
}

func image(url string) domain.FeedImage {
	return domain.FeedImage{ID: uuid.New(), URL: url}
}

func ids(images []domain.FeedImage) []uuid.UUID {
	out := make([]uuid.UUID, len(images))
	for i, img := range images {
		out[i] = img.ID
	}
	return out
}

// pagedRemote serves scripted pages keyed by cursor and counts calls.
type pagedRemote struct {
	mu    sync.Mutex
	pages map[uuid.UUID][]domain.FeedImage
	first []domain.FeedImage
	err   error
	calls int
}

func (r *pagedRemote) load(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if afterID == nil {
		return r.first, nil
	}
	return r.pages[*afterID], nil
}

func TestFeedPipelineFirstPageCachesRemoteResult(t *testing.T) {
	ctx := context.Background()
	store := &feedStoreSpy{}
	local := feed.NewLocalFeedLoader(store, time.Now)
	firstPage := []domain.FeedImage{image("a"), image("b")}
	remote := &pagedRemote{first: firstPage}
	p := NewFeedPipeline(remote.load, local, 2)

	page, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != firstPage[0].ID {
		t.Errorf("page = %+v, want remote items", page.Items)
	}
	if !page.HasMore() {
		t.Error("full page should have a continuation")
	}
	if got := store.lastInsert(); len(got) != 2 {
		t.Errorf("cache insert = %+v, want the loaded page", got)
	}
}

func TestFeedPipelineFallsBackToCacheOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	store := &feedStoreSpy{}
	local := feed.NewLocalFeedLoader(store, time.Now)
	p := NewFeedPipeline((&pagedRemote{err: errors.New("offline")}).load, local, 10)

	cached := []domain.FeedImage{image("a")}
	if err := local.Save(ctx, cached); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	page, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != cached[0].ID {
		t.Errorf("page = %+v, want cached items", page.Items)
	}
	if page.HasMore() {
		t.Error("short cached feed should be terminal")
	}
}

func TestFeedPipelineEmptyWhenRemoteFailsAndCacheEmpty(t *testing.T) {
	store := &feedStoreSpy{}
	local := feed.NewLocalFeedLoader(store, time.Now)
	p := NewFeedPipeline((&pagedRemote{err: errors.New("offline")}).load, local, 10)

	page, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(page.Items) != 0 || page.HasMore() {
		t.Errorf("expected terminal empty page, got %+v", page)
	}
}

func TestFeedPipelineLoadMoreMergesDedupesAndCaches(t *testing.T) {
	ctx := context.Background()
	store := &feedStoreSpy{}
	local := feed.NewLocalFeedLoader(store, time.Now)

	a, b := image("a"), image("b")
	c := image("c")
	remote := &pagedRemote{
		first: []domain.FeedImage{a, b},
		pages: map[uuid.UUID][]domain.FeedImage{
			b.ID: {b, c}, // overlaps with the previous page
			c.ID: {},     // end of feed
		},
	}
	p := NewFeedPipeline(remote.load, local, 2)

	page, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	page, err = page.LoadMore(ctx)
	if err != nil {
		t.Fatalf("load more: %v", err)
	}

	want := []uuid.UUID{a.ID, b.ID, c.ID}
	got := ids(page.Items)
	if len(got) != len(want) {
		t.Fatalf("merged feed has %d items, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %v, want %v", i, got[i], want[i])
		}
	}
	if inserted := store.lastInsert(); len(inserted) != 3 {
		t.Errorf("cache holds %d items, want the merged union of 3", len(inserted))
	}

	// The overlap page was full, so another continuation exists; it
	// fetches an empty page and terminates.
	if !page.HasMore() {
		t.Fatal("expected a continuation after a full page")
	}
	page, err = page.LoadMore(ctx)
	if err != nil {
		t.Fatalf("final page: %v", err)
	}
	if page.HasMore() {
		t.Error("empty page should be terminal")
	}
	if len(page.Items) != 3 {
		t.Errorf("final page lost items: %d", len(page.Items))
	}
}

func TestFeedPipelineShortPageIsTerminal(t *testing.T) {
	store := &feedStoreSpy{}
	local := feed.NewLocalFeedLoader(store, time.Now)
	p := NewFeedPipeline((&pagedRemote{first: []domain.FeedImage{image("a")}}).load, local, 2)

	page, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if page.HasMore() {
		t.Error("page shorter than the limit should be terminal")
	}
}
