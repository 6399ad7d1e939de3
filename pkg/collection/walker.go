package collection

import (
	"context"
	"fmt"

	"github.com/wehubfusion/Daedalus/pkg/errors"
	"github.com/wehubfusion/Daedalus/pkg/promise"
)

// walkPolicy configures one sequential walk: optional early-stop flag and an
// optional per-element hook that records callback results
type walkPolicy struct {
	stopOn  *bool
	reverse bool
	visit   func(pos int, key, value, result interface{})
}

// step executes the unit of work for one traversal position: read the raw
// element, resolve it if pending, invoke the callback, and resolve the
// callback's result if that is pending too. It returns the element's key, its
// resolved value, and the callback's settled result.
func step(ctx context.Context, p *plan, pos int, fn Callback) (interface{}, interface{}, interface{}, error) {
	key, raw := p.element(pos)

	if pending, ok := raw.(*promise.Promise); ok {
		resolved, err := pending.Await(ctx)
		if err != nil {
			return key, nil, nil, errors.NewElementResolution(
				fmt.Sprintf("element %v", key), err)
		}
		raw = resolved
	}

	result, err := fn(ctx, raw, key, p.source)
	if err != nil {
		return key, raw, nil, errors.NewCallbackFailed(
			fmt.Sprintf("element %v", key), err)
	}

	if pending, ok := result.(*promise.Promise); ok {
		result, err = pending.Await(ctx)
		if err != nil {
			return key, raw, nil, errors.NewCallbackFailed(
				fmt.Sprintf("element %v", key), err)
		}
	}

	return key, raw, result, nil
}

// walk advances through the plan one element at a time, never starting
// element i+1 before element i's value resolution and callback have settled.
// The explicit loop keeps stack usage flat over large containers. On any
// failure the remaining elements are not visited.
//
// With an early-stop flag set, walk resolves with the flag's value the first
// time a callback result's truthiness equals it, and with the flag's negation
// on exhaustion. Without a flag it resolves with the original container.
func walk(ctx context.Context, p *plan, fn Callback, pol walkPolicy) (interface{}, error) {
	for i := 0; i < p.count; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pos := i
		if pol.reverse {
			pos = p.count - 1 - i
		}

		key, value, result, err := step(ctx, p, pos, fn)
		if err != nil {
			return nil, err
		}

		if pol.stopOn != nil {
			if truthy(result) == *pol.stopOn {
				return *pol.stopOn, nil
			}
			continue
		}

		if pol.visit != nil {
			pol.visit(pos, key, value, result)
		}
	}

	if pol.stopOn != nil {
		return !*pol.stopOn, nil
	}
	return p.source, nil
}

// findFirst walks the plan (optionally backward) until a callback result is
// truthy, returning the matching element as a Match, or Found=false after
// visiting every element exactly once.
func findFirst(ctx context.Context, p *plan, fn Callback, reverse bool) (Match, error) {
	for i := 0; i < p.count; i++ {
		select {
		case <-ctx.Done():
			return Match{}, ctx.Err()
		default:
		}

		pos := i
		if reverse {
			pos = p.count - 1 - i
		}

		key, value, result, err := step(ctx, p, pos, fn)
		if err != nil {
			return Match{}, err
		}
		if truthy(result) {
			return Match{Key: key, Value: value, Found: true}, nil
		}
	}

	return Match{}, nil
}
