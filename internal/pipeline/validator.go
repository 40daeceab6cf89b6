package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/timmy/photofeed/internal/logger"
)

// CacheValidator runs cache validation as a background, single-flight
// operation. Triggers arriving while a validation is in flight are
// ignored, and validation failures are logged and absorbed rather than
// surfaced to the trigger site.
type CacheValidator struct {
	validate func(ctx context.Context) error
	running  atomic.Bool
}

// NewCacheValidator creates a validator around a validation function.
// Parameters:
//   - validate: the cache validation to run, typically
//     LocalFeedLoader.ValidateCache.
// Returns:
//   - *CacheValidator: initialized validator.
func NewCacheValidator(validate func(ctx context.Context) error) *CacheValidator {
	return &CacheValidator{validate: validate}
}

// Trigger starts a validation in the background unless one is already
// running.
// Parameters:
//   - ctx: context the validation runs under.
// Returns:
//   - bool: true when a validation was started, false when one was
//     already in flight.
func (v *CacheValidator) Trigger(ctx context.Context) bool {
	if !v.running.CompareAndSwap(false, true) {
		logger.CtxDebug(ctx, "Cache validation already in flight, ignoring trigger")
		return false
	}
	go func() {
		defer v.running.Store(false)
		v.run(ctx)
	}()
	return true
}

// Run performs one validation synchronously, used on shutdown where the
// process must not exit before the cache has been checked.
// Parameters:
//   - ctx: context the validation runs under.
// Returns: none.
func (v *CacheValidator) Run(ctx context.Context) {
	if !v.running.CompareAndSwap(false, true) {
		logger.CtxDebug(ctx, "Cache validation already in flight, ignoring run")
		return
	}
	defer v.running.Store(false)
	v.run(ctx)
}

func (v *CacheValidator) run(ctx context.Context) {
	if err := v.validate(ctx); err != nil {
		logger.CtxWarn(ctx, "Cache validation failed: %v", err)
		return
	}
	logger.CtxDebug(ctx, "Cache validation completed")
}
