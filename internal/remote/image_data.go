package remote

import (
	"context"
	"fmt"
	"net/http"
)

// ImageDataLoader fetches raw image bytes from their URL. A 200 status
// with a non-empty body is required; anything else is invalid data.
type ImageDataLoader struct {
	client HTTPClient
}

// NewImageDataLoader creates a remote image data loader.
// Parameters:
//   - client: transport to fetch with.
// Returns:
//   - *ImageDataLoader: initialized loader.
func NewImageDataLoader(client HTTPClient) *ImageDataLoader {
	return &ImageDataLoader{client: client}
}

// LoadData fetches the image bytes at url.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: absolute image URL.
// Returns:
//   - []byte: image bytes.
//   - error: ErrConnectivity or ErrInvalidData (wrapped with detail).
func (l *ImageDataLoader) LoadData(ctx context.Context, url string) ([]byte, error) {
	body, statusCode, err := l.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	if statusCode != http.StatusOK || len(body) == 0 {
		return nil, fmt.Errorf("%w: status %d, %d bytes", ErrInvalidData, statusCode, len(body))
	}
	return body, nil
}
