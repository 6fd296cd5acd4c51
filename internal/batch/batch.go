// Package batch provides bounded fan-out over per-company and per-person
// work while keeping results aligned to input order.
package batch

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the window size used when the caller passes limit <= 0.
const DefaultLimit = 5

// RunBounded executes work over items in fixed-size windows: each window's
// items run concurrently and the next window starts only after the whole
// window finishes. Results are indexed to inputs regardless of completion
// order.
//
// The work function must not panic or leak failures: it is expected to
// convert a failed item into a degraded result so siblings in the window
// are unaffected.
func RunBounded[T, R any](ctx context.Context, items []T, limit int, work func(ctx context.Context, item T) R) []R {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]R, len(items))
	for start := 0; start < len(items); start += limit {
		end := start + limit
		if end > len(items) {
			end = len(items)
		}

		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = work(gCtx, items[i])
				return nil
			})
		}
		_ = g.Wait()

		if ctx.Err() != nil {
			zap.L().Debug("batch: context cancelled, returning partial results",
				zap.Int("completed", end),
				zap.Int("total", len(items)),
			)
			break
		}
	}
	return results
}
