package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/wehubfusion/Daedalus/pkg/errors"
	"github.com/wehubfusion/Daedalus/pkg/promise"
)

// mapAll starts the per-element unit of work for every element at once and
// joins on completion. There is deliberately no concurrency ceiling. The
// first failure wins and fails the whole operation; results of the remaining
// elements are discarded. Result placement is by source position, not
// completion order.
func mapAll(ctx context.Context, p *plan, fn Callback) ([]interface{}, error) {
	results := make([]interface{}, p.count)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstError error

	fail := func(err error) {
		mu.Lock()
		if firstError == nil {
			firstError = err
			cancel()
		}
		mu.Unlock()
	}

	for i := 0; i < p.count; i++ {
		wg.Add(1)
		go func(pos int) {
			defer wg.Done()

			key, raw := p.element(pos)

			if pending, ok := raw.(*promise.Promise); ok {
				resolved, err := pending.Await(ctx)
				if err != nil {
					fail(errors.NewElementResolution(fmt.Sprintf("element %v", key), err))
					return
				}
				raw = resolved
			}

			result, err := fn(ctx, raw, key, p.source)
			if err != nil {
				fail(errors.NewCallbackFailed(fmt.Sprintf("element %v", key), err))
				return
			}
			if pending, ok := result.(*promise.Promise); ok {
				result, err = pending.Await(ctx)
				if err != nil {
					fail(errors.NewCallbackFailed(fmt.Sprintf("element %v", key), err))
					return
				}
			}

			mu.Lock()
			results[pos] = result
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	if firstError != nil {
		return nil, firstError
	}
	return results, nil
}
