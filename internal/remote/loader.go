package remote

import (
	"context"
	"errors"
	"fmt"
)

// ErrConnectivity marks a transport-level failure reaching the remote
// source.
var ErrConnectivity = errors.New("remote: connectivity error")

// ErrInvalidData marks a response that arrived but could not be accepted:
// a non-success status or a payload that failed to decode.
var ErrInvalidData = errors.New("remote: invalid data")

// Mapper decodes a response body plus status code into a resource.
// Mappers are synchronous and pure; they return an error on any decode
// failure or non-success status.
type Mapper[T any] func(body []byte, statusCode int) (T, error)

// Loader fetches and decodes a resource of type T from arbitrary URLs.
// Any mapper failure is reported as ErrInvalidData and any transport
// failure as ErrConnectivity; no other error kinds are synthesized.
type Loader[T any] struct {
	client HTTPClient
	mapper Mapper[T]
}

// NewLoader creates a remote loader.
// Parameters:
//   - client: transport to fetch with.
//   - mapper: decoder for the response.
// Returns:
//   - *Loader[T]: initialized loader.
func NewLoader[T any](client HTTPClient, mapper Mapper[T]) *Loader[T] {
	return &Loader[T]{client: client, mapper: mapper}
}

// Load fetches url and decodes the response.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: absolute request URL.
// Returns:
//   - T: decoded resource.
//   - error: ErrConnectivity or ErrInvalidData (wrapped with detail).
func (l *Loader[T]) Load(ctx context.Context, url string) (T, error) {
	var zero T

	body, statusCode, err := l.client.Get(ctx, url)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	value, err := l.mapper(body, statusCode)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return value, nil
}
