package remote

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is the transport boundary for remote loaders. The returned
// status code is only classified by mappers; transport failures surface
// as errors. Implementations must honor context cancellation.
type HTTPClient interface {
	Get(ctx context.Context, url string) (body []byte, statusCode int, err error)
}

// RestyClient adapts a resty client to the HTTPClient boundary.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates an HTTP client with the given request timeout.
// Parameters:
//   - timeout: per-request timeout; zero means no timeout.
// Returns:
//   - *RestyClient: initialized client.
func NewRestyClient(timeout time.Duration) *RestyClient {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &RestyClient{client: client}
}

// Get performs a GET request.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: absolute request URL.
// Returns:
//   - []byte: response body.
//   - int: HTTP status code.
//   - error: non-nil on transport failure or cancellation.
func (c *RestyClient) Get(ctx context.Context, url string) ([]byte, int, error) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body(), resp.StatusCode(), nil
}
