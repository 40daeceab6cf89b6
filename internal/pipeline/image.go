package pipeline

import (
	"context"

	"github.com/timmy/photofeed/internal/feed"
	"github.com/timmy/photofeed/internal/loader"
)

// ImageDataFunc fetches raw image bytes for a URL from the network.
type ImageDataFunc func(ctx context.Context, url string) ([]byte, error)

// ImagePipeline composes local and remote image data loading.
//
// Images are cache-first: the local blob is tried before the network,
// and a successful network fetch is written back to the cache. A failed
// cache write never fails the load.
type ImagePipeline struct {
	remoteData ImageDataFunc
	local      *feed.LocalImageDataLoader
}

// NewImagePipeline creates an image data pipeline.
// Parameters:
//   - remoteData: network fetcher for image bytes.
//   - local: local blob cache used first and written back on a miss.
// Returns:
//   - *ImagePipeline: initialized pipeline.
func NewImagePipeline(remoteData ImageDataFunc, local *feed.LocalImageDataLoader) *ImagePipeline {
	return &ImagePipeline{remoteData: remoteData, local: local}
}

// LoadData returns the image bytes for url, from cache when present.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: absolute image URL.
// Returns:
//   - []byte: image bytes.
//   - error: non-nil when both the cache and the network fail.
func (p *ImagePipeline) LoadData(ctx context.Context, url string) ([]byte, error) {
	cached := func(ctx context.Context) ([]byte, error) {
		return p.local.LoadData(ctx, url)
	}
	fetched := loader.Caching[[]byte](func(ctx context.Context) ([]byte, error) {
		return p.remoteData(ctx, url)
	}, func(ctx context.Context, data []byte) error {
		return p.local.Save(ctx, url, data)
	})

	return loader.Fallback[[]byte](cached, fetched)(ctx)
}
