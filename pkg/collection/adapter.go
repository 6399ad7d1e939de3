package collection

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/wehubfusion/Daedalus/pkg/errors"
)

// accessMode selects how an element is read during traversal
type accessMode int

const (
	accessIndexed  accessMode = iota // positional read on a slice or array
	accessNamed                      // map read by string key
	accessGetByKey                   // OrderedMap.Get
)

// plan is the traversal plan built once per operation invocation: the key
// order, element count, and access mode for one container. Plans are not
// refreshed if the container is mutated while an operation runs; behavior
// under concurrent external mutation is undefined.
type plan struct {
	source interface{}
	rv     reflect.Value // valid for indexed and named access
	om     *OrderedMap   // valid for getByKey access
	keys   []string      // nil when positions 0..count-1 are the keys
	count  int
	access accessMode
}

// inspect classifies a container into one of the supported shapes and builds
// its traversal plan. Classification order: OrderedMap first, then slices and
// arrays, then string-keyed maps. Anything else is unsupported.
//
// Go maps have no insertion order to preserve, so named access traverses keys
// in sorted order to keep runs deterministic.
func inspect(container interface{}) (*plan, error) {
	if om, ok := container.(*OrderedMap); ok {
		return &plan{
			source: container,
			om:     om,
			keys:   om.Keys(),
			count:  om.Len(),
			access: accessGetByKey,
		}, nil
	}

	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return &plan{
			source: container,
			rv:     rv,
			count:  rv.Len(),
			access: accessIndexed,
		}, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.NewUnsupportedContainer(
				fmt.Sprintf("map keys must be strings, got %s", rv.Type().Key()))
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return &plan{
			source: container,
			rv:     rv,
			keys:   keys,
			count:  len(keys),
			access: accessNamed,
		}, nil
	}

	return nil, errors.NewUnsupportedContainer(
		fmt.Sprintf("cannot iterate value of type %T", container))
}

// element reads the raw element at traversal position i, returning its key
// (int position or string key) and value. The value may be a pending
// *promise.Promise; resolution is the walker's job.
func (p *plan) element(i int) (interface{}, interface{}) {
	switch p.access {
	case accessIndexed:
		return i, p.rv.Index(i).Interface()
	case accessNamed:
		key := p.keys[i]
		return key, p.rv.MapIndex(reflect.ValueOf(key)).Interface()
	default:
		key := p.keys[i]
		value, _ := p.om.Get(key)
		return key, value
	}
}

// assembleMapped builds the result container for Map and MultiMap from
// per-position results, honoring the AsArray policy. Slices and arrays always
// collect into a slice.
func (p *plan) assembleMapped(results []interface{}, asArray bool) interface{} {
	if asArray || p.access == accessIndexed {
		return results
	}
	if p.access == accessGetByKey {
		out := NewOrderedMap()
		for i, k := range p.keys {
			out.Set(k, results[i])
		}
		return out
	}
	out := make(map[string]interface{}, p.count)
	for i, k := range p.keys {
		out[k] = results[i]
	}
	return out
}

// kept is one element retained by Filter, in source traversal order
type kept struct {
	key   interface{}
	value interface{}
}

// assembleFiltered builds the result container for Filter. Slice results are
// compacted: kept elements are written contiguously with no gaps for the
// elements that were dropped.
func (p *plan) assembleFiltered(elems []kept, asArray bool) interface{} {
	if asArray || p.access == accessIndexed {
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			out[i] = e.value
		}
		return out
	}
	if p.access == accessGetByKey {
		out := NewOrderedMap()
		for _, e := range elems {
			out.Set(e.key.(string), e.value)
		}
		return out
	}
	out := make(map[string]interface{}, len(elems))
	for _, e := range elems {
		out[e.key.(string)] = e.value
	}
	return out
}
