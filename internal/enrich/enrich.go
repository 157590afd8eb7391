// Package enrich runs bounded parallel fetches and joins on all of them.
package enrich

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/wealth-manager-backend/internal/logger"
)

// Result holds the values of the successful fetches keyed by id, and the ids
// whose fetch failed, in input order.
type Result[T any] struct {
	Values map[string]T
	Failed []string
}

// Join fetches every id with at most limit fetches in flight and waits for
// all of them. A failed fetch is logged and left out of Values; it never
// aborts the batch. Duplicate ids are fetched once.
//
// The returned error is only set when ctx ends before the join completes.
func Join[T any](
	ctx context.Context,
	ids []string,
	limit int,
	fetch func(ctx context.Context, id string) (T, error),
) (Result[T], error) {
	res := Result[T]{Values: make(map[string]T, len(ids))}
	if len(ids) == 0 {
		return res, nil
	}
	if limit < 1 {
		limit = 1
	}

	var mu sync.Mutex
	failed := make(map[string]bool)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				mu.Lock()
				failed[id] = true
				mu.Unlock()
				return nil
			}

			v, err := fetch(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Get().Warnw("detail fetch failed, excluding item", "id", id, "error", err)
				failed[id] = true
				return nil
			}
			res.Values[id] = v
			return nil
		})
	}

	// fetch errors are swallowed above; Wait cannot fail
	_ = g.Wait()

	for _, id := range ids {
		if failed[id] {
			res.Failed = append(res.Failed, id)
			delete(failed, id)
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}
