package loader

import (
	"context"

	"github.com/timmy/photofeed/internal/logger"
)

// Caching decorates a producer with a best-effort cache write: the
// producer's result is forwarded to the caller verbatim, and on success
// the value is additionally handed to save. A failing save never affects
// the delivered result; it is logged at debug level and dropped.
// Parameters:
//   - l: producer to decorate.
//   - save: cache sink invoked only on success.
// Returns:
//   - Loader[T]: the decorated producer.
func Caching[T any](l Loader[T], save Saver[T]) Loader[T] {
	return func(ctx context.Context) (T, error) {
		value, err := l(ctx)
		if err != nil {
			return value, err
		}
		if saveErr := save(ctx, value); saveErr != nil {
			logger.CtxDebug(ctx, "Ignoring cache write failure: %v", saveErr)
		}
		return value, nil
	}
}
