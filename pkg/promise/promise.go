// Package promise provides the pending-computation primitive used throughout
// the SDK: a handle to a value or failure that becomes available after some
// asynchronous delay. A Promise settles exactly once; once settled its result
// never changes and any number of goroutines may await it.
package promise

import (
	"context"
	"sync"
	"time"
)

// Executor is the function given to New. It receives resolve and reject
// functions; the first one called settles the promise, later calls are no-ops.
type Executor func(resolve func(interface{}), reject func(error))

// Promise is a handle to the eventual result of an asynchronous computation.
// The zero value is not usable; construct promises with New, Go, Resolve,
// Reject, or Delay.
type Promise struct {
	done  chan struct{}
	once  sync.Once
	value interface{}
	err   error
}

// New creates a promise and runs the executor in its own goroutine.
func New(executor Executor) *Promise {
	p := &Promise{done: make(chan struct{})}

	go executor(p.resolve, p.reject)

	return p
}

// Go creates a promise from a plain result-or-error function, running it in
// its own goroutine. This is the idiomatic constructor for Go callers.
func Go(fn func() (interface{}, error)) *Promise {
	p := &Promise{done: make(chan struct{})}

	go func() {
		value, err := fn()
		if err != nil {
			p.reject(err)
			return
		}
		p.resolve(value)
	}()

	return p
}

// Resolve returns a promise already settled with the given value.
func Resolve(value interface{}) *Promise {
	p := &Promise{done: make(chan struct{})}
	p.resolve(value)
	return p
}

// Reject returns a promise already settled with the given error.
func Reject(err error) *Promise {
	p := &Promise{done: make(chan struct{})}
	p.reject(err)
	return p
}

// Delay returns a promise that resolves with payload after at least d has
// elapsed. The payload may be nil. The returned promise never fails.
func Delay(d time.Duration, payload interface{}) *Promise {
	p := &Promise{done: make(chan struct{})}

	time.AfterFunc(d, func() {
		p.resolve(payload)
	})

	return p
}

// Await blocks until the promise settles or the context is done, returning
// the settled value or error. A context error does not settle the promise;
// the underlying computation keeps running and may be awaited again.
func (p *Promise) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the promise has already resolved or failed.
func (p *Promise) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *Promise) resolve(value interface{}) {
	p.once.Do(func() {
		p.value = value
		close(p.done)
	})
}

func (p *Promise) reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}
