package stream

import (
	"sync"

	"github.com/google/uuid"
)

// Context is the single shared accumulator for one Process invocation. It is
// created when processing starts, handed to every per-unit callback, and
// resolved as the operation's final result. Only one callback invocation is
// in flight at a time, but the accessors are mutex-guarded so the context
// can also be inspected safely after completion or from other goroutines.
type Context struct {
	// ID uniquely identifies this processing run
	ID string

	mu        sync.RWMutex
	units     []interface{}
	values    map[string]interface{}
	processed int
}

// NewContext creates an empty accumulator with a fresh ID
func NewContext() *Context {
	return &Context{
		ID:     uuid.NewString(),
		values: make(map[string]interface{}),
	}
}

// AppendUnit adds one unit to the accumulated unit list. The default
// callback uses this; custom callbacks may too.
func (c *Context) AppendUnit(unit interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units = append(c.units, unit)
}

// Units returns a copy of the accumulated unit list
func (c *Context) Units() []interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	units := make([]interface{}, len(c.units))
	copy(units, c.units)
	return units
}

// Set stores an arbitrary named value on the context
func (c *Context) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Get returns a named value and whether it was set
func (c *Context) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.values[key]
	return value, ok
}

// Snapshot returns a copy of all named values
func (c *Context) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]interface{}, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Processed returns the number of units whose callback work fully settled
func (c *Context) Processed() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processed
}

func (c *Context) markProcessed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processed++
}
