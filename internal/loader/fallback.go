package loader

import "context"

// Fallback composes two producers of the same resource: primary runs
// first and its success is forwarded without ever starting fallback; on
// primary failure, fallback runs and its result is forwarded unchanged,
// so when both fail the caller sees the fallback's error. One attempt per
// side, no retries, never speculative.
//
// Cancellation: if the context is done when primary fails, fallback is
// not started and the context error is returned.
// Parameters:
//   - primary: producer tried first.
//   - fallback: producer tried only after primary fails.
// Returns:
//   - Loader[T]: the composed producer.
func Fallback[T any](primary, fallback Loader[T]) Loader[T] {
	return func(ctx context.Context) (T, error) {
		value, err := primary(ctx)
		if err == nil {
			return value, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero T
			return zero, ctxErr
		}
		return fallback(ctx)
	}
}
