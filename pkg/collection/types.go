// Package collection provides promise-aware iteration primitives that work
// uniformly over slices, arrays, string-keyed maps, and OrderedMaps:
// sequential and concurrent traversal, filtering, mapping, and searching.
//
// Elements of the source container may themselves be *promise.Promise values;
// the engine resolves them before handing the settled value to the callback.
// Every operation returns a *promise.Promise and never starts element i+1's
// callback before element i has fully settled, except MultiMap which runs all
// elements concurrently.
package collection

import (
	"context"
	"math"
	"reflect"
)

// Callback is the function invoked once per element. It receives the resolved
// element value, its key (an int position for slices and arrays, a string key
// for maps and OrderedMaps), and the source container. The returned result
// may itself be a *promise.Promise, which the engine awaits before using it.
type Callback func(ctx context.Context, value interface{}, key interface{}, source interface{}) (interface{}, error)

// Match is the normalized result of Find and IndexOf: either a hit carrying
// the key and element value, or Found=false after every element was visited
// without a hit. It replaces shape-dependent not-found sentinels with one
// explicit variant type.
type Match struct {
	// Key is the position (int) or key (string) of the matched element
	Key interface{}

	// Value is the matched element, already resolved if it was pending
	Value interface{}

	// Found reports whether any element satisfied the callback
	Found bool
}

// Options control result family and traversal direction
type Options struct {
	// AsArray forces a []interface{} result regardless of the source family.
	// When false, filter/map results match the source: an OrderedMap for an
	// OrderedMap source, a map[string]interface{} for a map source, a slice
	// otherwise. Defaults to true.
	AsArray bool

	// FromEnd walks the container backward; used by Find and IndexOf to
	// return the last forward match instead of the first
	FromEnd bool

	// stopOn is the internal early-stop flag shared by Some and Every
	stopOn *bool
}

// Option mutates Options, in the style of functional options
type Option func(*Options)

// AsArray controls the result family of Filter, Map, and MultiMap
func AsArray(v bool) Option {
	return func(o *Options) { o.AsArray = v }
}

// FromEnd makes Find and IndexOf search backward from the last element
func FromEnd() Option {
	return func(o *Options) { o.FromEnd = true }
}

// StopOn configures Each to stop early: with true, Each resolves true on the
// first truthy callback result; with false, it resolves false on the first
// falsy one. Exhausting the container resolves with the flag's negation.
func StopOn(v bool) Option {
	return func(o *Options) { o.stopOn = &v }
}

func buildOptions(opts []Option) Options {
	o := Options{AsArray: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// truthy implements the engine's notion of a truthy callback result: nil,
// false, zero numbers, NaN, empty strings, and nil pointers/slices/maps are
// falsy; everything else, including empty composites, is truthy.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int:
		return x != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return !rv.IsNil()
	}
	return true
}
