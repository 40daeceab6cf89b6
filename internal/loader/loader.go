// Package loader provides generic, stateless combinators over resource
// producers. Composition happens once at startup; the combinators hold no
// state besides the producers they wrap and are safely reentrant.
package loader

import "context"

// Loader produces a resource of type T. Cancellation flows through the
// context; a canceled loader must not be observed as a success.
type Loader[T any] func(ctx context.Context) (T, error)

// Saver persists a produced resource of type T into a cache.
type Saver[T any] func(ctx context.Context, value T) error
