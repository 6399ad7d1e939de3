// Package callback adapts functions using the trailing error-or-result
// callback convention into functions returning a *promise.Promise.
package callback

import (
	"github.com/wehubfusion/Daedalus/pkg/errors"
	"github.com/wehubfusion/Daedalus/pkg/promise"
)

// Done is the completion callback synthesized by Promisify and appended to
// every adapted call: a non-nil err fails the promise, otherwise the promise
// resolves with result.
type Done func(err error, result interface{})

// Func is a callback-style asynchronous function: it receives its arguments
// plus a completion callback it must invoke exactly once.
type Func func(args []interface{}, done Done)

// BoundFunc is a callback-style function with an explicit receiver. The
// receiver replaces the implicit binding target of dynamic languages.
type BoundFunc func(recv interface{}, args []interface{}, done Done)

// Wrapped is a promise-returning function produced by Promisify
type Wrapped func(args ...interface{}) *promise.Promise

// Promisify wraps a callback-style function into one returning a promise.
// The wrapped function is invoked with the supplied arguments plus a
// synthesized final callback; a non-nil error passed to that callback fails
// the returned promise, otherwise it resolves with the callback's result.
func Promisify(fn Func) Wrapped {
	return func(args ...interface{}) *promise.Promise {
		return promise.New(func(resolve func(interface{}), reject func(error)) {
			fn(args, func(err error, result interface{}) {
				if err != nil {
					reject(errors.NewAdaptedCall("wrapped function reported an error", err))
					return
				}
				resolve(result)
			})
		})
	}
}

// PromisifyBound is Promisify for functions needing a receiver: recv is
// passed as the explicit first parameter on every call.
func PromisifyBound(recv interface{}, fn BoundFunc) Wrapped {
	return Promisify(func(args []interface{}, done Done) {
		fn(recv, args, done)
	})
}
