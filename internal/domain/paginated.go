package domain

import "context"

// Paginated holds one page of items plus an optional continuation that
// produces the next page. A nil LoadMore marks the terminal page.
//
// Each LoadMore call is independently cancelable through its context;
// gating concurrent calls is the caller's responsibility.
type Paginated[T any] struct {
	Items    []T
	LoadMore func(ctx context.Context) (Paginated[T], error)
}

// HasMore reports whether another page can be requested.
// Parameters: none.
// Returns:
//   - bool: true when a continuation is available.
func (p Paginated[T]) HasMore() bool {
	return p.LoadMore != nil
}
