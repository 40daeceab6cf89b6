package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/timmy/photofeed/internal/domain"
	"github.com/timmy/photofeed/internal/feed"
	"github.com/timmy/photofeed/internal/loader"
)

// FeedPageFunc fetches one page of feed images from the upstream API.
// A nil afterID requests the first page.
type FeedPageFunc func(ctx context.Context, afterID *uuid.UUID) ([]domain.FeedImage, error)

// FeedPipeline composes the remote feed with the local cache into a
// paginated, offline-capable feed.
//
// The first page is remote-first: a successful remote fetch is cached
// and served; when the remote fails, the cached feed (possibly empty)
// is served instead. Subsequent pages are remote-only and each page
// re-caches the accumulated feed seen so far.
type FeedPipeline struct {
	remotePage FeedPageFunc
	local      *feed.LocalFeedLoader
	limit      int
}

// NewFeedPipeline creates a feed pipeline.
// Parameters:
//   - remotePage: upstream page fetcher.
//   - local: local cache loader used for fallback and cache writes.
//   - limit: page size requested from the upstream; a page shorter than
//     this marks the end of the feed.
// Returns:
//   - *FeedPipeline: initialized pipeline.
func NewFeedPipeline(remotePage FeedPageFunc, local *feed.LocalFeedLoader, limit int) *FeedPipeline {
	return &FeedPipeline{remotePage: remotePage, local: local, limit: limit}
}

// Load produces the first page of the feed.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - domain.Paginated[domain.FeedImage]: first page with an optional
//     continuation.
//   - error: non-nil when both the remote and the cache fail.
func (p *FeedPipeline) Load(ctx context.Context) (domain.Paginated[domain.FeedImage], error) {
	remote := loader.Caching[[]domain.FeedImage](func(ctx context.Context) ([]domain.FeedImage, error) {
		return p.remotePage(ctx, nil)
	}, p.local.Save)

	items, err := loader.Fallback[[]domain.FeedImage](remote, p.local.Load)(ctx)
	if err != nil {
		return domain.Paginated[domain.FeedImage]{}, err
	}
	return p.makePage(items, len(items)), nil
}

// LoadAfter produces the page following the given cursor, using the
// cached feed as the set of items seen so far. This is the stateless
// entry point for continuation requests that cannot carry the in-memory
// continuation from a previous Load.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - after: ID of the last item the caller has seen.
// Returns:
//   - domain.Paginated[domain.FeedImage]: merged feed with an optional
//     continuation.
//   - error: non-nil when the cache read or the remote fetch fails.
func (p *FeedPipeline) LoadAfter(ctx context.Context, after uuid.UUID) (domain.Paginated[domain.FeedImage], error) {
	seen, err := p.local.Load(ctx)
	if err != nil {
		return domain.Paginated[domain.FeedImage]{}, err
	}
	return p.loadMore(ctx, seen, after)
}

// loadMore fetches the page after the given cursor, merges it with the
// items seen so far, and caches the merged feed.
func (p *FeedPipeline) loadMore(ctx context.Context, seen []domain.FeedImage, after uuid.UUID) (domain.Paginated[domain.FeedImage], error) {
	var fetched int
	load := loader.Caching[[]domain.FeedImage](func(ctx context.Context) ([]domain.FeedImage, error) {
		fresh, err := p.remotePage(ctx, &after)
		if err != nil {
			return nil, err
		}
		fetched = len(fresh)
		return mergeFeed(seen, fresh), nil
	}, p.local.Save)

	merged, err := load(ctx)
	if err != nil {
		return domain.Paginated[domain.FeedImage]{}, err
	}
	return p.makePage(merged, fetched), nil
}

// makePage wraps the accumulated items into a page. The continuation is
// omitted when the last fetched page was shorter than the limit or the
// feed is empty.
func (p *FeedPipeline) makePage(items []domain.FeedImage, lastPageLen int) domain.Paginated[domain.FeedImage] {
	page := domain.Paginated[domain.FeedImage]{Items: items}
	if lastPageLen < p.limit || len(items) == 0 {
		return page
	}
	after := items[len(items)-1].ID
	page.LoadMore = func(ctx context.Context) (domain.Paginated[domain.FeedImage], error) {
		return p.loadMore(ctx, items, after)
	}
	return page
}

// mergeFeed appends fresh items to seen, dropping duplicates by ID while
// preserving first-appearance order.
func mergeFeed(seen, fresh []domain.FeedImage) []domain.FeedImage {
	known := make(map[uuid.UUID]struct{}, len(seen)+len(fresh))
	merged := make([]domain.FeedImage, 0, len(seen)+len(fresh))
	for _, images := range [][]domain.FeedImage{seen, fresh} {
		for _, img := range images {
			if _, ok := known[img.ID]; ok {
				continue
			}
			known[img.ID] = struct{}{}
			merged = append(merged, img)
		}
	}
	return merged
}
