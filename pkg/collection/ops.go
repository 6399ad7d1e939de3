package collection

import (
	"context"

	"github.com/wehubfusion/Daedalus/pkg/promise"
)

// Each invokes fn once per element, strictly in traversal order, and resolves
// with the original container instance. With the StopOn option it resolves
// with a bool instead (see StopOn).
func Each(ctx context.Context, container interface{}, fn Callback, opts ...Option) *promise.Promise {
	o := buildOptions(opts)
	return promise.Go(func() (interface{}, error) {
		p, err := inspect(container)
		if err != nil {
			return nil, err
		}
		return walk(ctx, p, fn, walkPolicy{stopOn: o.stopOn})
	})
}

// Some resolves true as soon as any callback result is truthy, visiting no
// further elements, and false once every element produced a falsy result.
func Some(ctx context.Context, container interface{}, fn Callback) *promise.Promise {
	return Each(ctx, container, fn, StopOn(true))
}

// Every resolves false as soon as any callback result is falsy, visiting no
// further elements, and true once every element produced a truthy result.
func Every(ctx context.Context, container interface{}, fn Callback) *promise.Promise {
	return Each(ctx, container, fn, StopOn(false))
}

// Filter resolves with a new container holding the elements whose callback
// result was truthy, in source order. The result family follows AsArray. The
// partially built result is never observable: on failure only the error
// surfaces.
func Filter(ctx context.Context, container interface{}, fn Callback, opts ...Option) *promise.Promise {
	o := buildOptions(opts)
	return promise.Go(func() (interface{}, error) {
		p, err := inspect(container)
		if err != nil {
			return nil, err
		}

		var elems []kept
		_, err = walk(ctx, p, fn, walkPolicy{
			visit: func(pos int, key, value, result interface{}) {
				if truthy(result) {
					elems = append(elems, kept{key: key, value: value})
				}
			},
		})
		if err != nil {
			return nil, err
		}
		return p.assembleFiltered(elems, o.AsArray), nil
	})
}

// Map invokes fn sequentially over every element and resolves with a new
// container of the same size carrying each callback result at its source
// position or key. The result family follows AsArray.
func Map(ctx context.Context, container interface{}, fn Callback, opts ...Option) *promise.Promise {
	o := buildOptions(opts)
	return promise.Go(func() (interface{}, error) {
		p, err := inspect(container)
		if err != nil {
			return nil, err
		}

		results := make([]interface{}, p.count)
		_, err = walk(ctx, p, fn, walkPolicy{
			visit: func(pos int, key, value, result interface{}) {
				results[pos] = result
			},
		})
		if err != nil {
			return nil, err
		}
		return p.assembleMapped(results, o.AsArray), nil
	})
}

// MultiMap is Map with every element's work started concurrently: same
// result content and placement, no ordering among starts, no concurrency
// ceiling. The first failure fails the whole operation.
func MultiMap(ctx context.Context, container interface{}, fn Callback, opts ...Option) *promise.Promise {
	o := buildOptions(opts)
	return promise.Go(func() (interface{}, error) {
		p, err := inspect(container)
		if err != nil {
			return nil, err
		}

		results, err := mapAll(ctx, p, fn)
		if err != nil {
			return nil, err
		}
		return p.assembleMapped(results, o.AsArray), nil
	})
}

// Find resolves with a Match for the first element (in traversal direction)
// whose callback result is truthy. With FromEnd the search runs backward, so
// the hit equals the last forward match. Match.Found is false when no element
// satisfied the callback.
func Find(ctx context.Context, container interface{}, fn Callback, opts ...Option) *promise.Promise {
	o := buildOptions(opts)
	return promise.Go(func() (interface{}, error) {
		p, err := inspect(container)
		if err != nil {
			return nil, err
		}
		return findFirst(ctx, p, fn, o.FromEnd)
	})
}

// IndexOf is Find for the key side: the resolved Match carries the position
// or key of the first satisfying element. It shares Find's engine and
// direction handling.
func IndexOf(ctx context.Context, container interface{}, fn Callback, opts ...Option) *promise.Promise {
	return Find(ctx, container, fn, opts...)
}
