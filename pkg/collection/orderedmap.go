package collection

// OrderedMap is a string-keyed container that preserves insertion order of
// its keys, unlike the built-in map. It is the strongest of the container
// shapes the iteration engine understands: explicit get/set by key plus a
// stable key sequence.
//
// OrderedMap is not safe for concurrent use.
type OrderedMap struct {
	keys  []string
	items map[string]interface{}
}

// NewOrderedMap creates an empty OrderedMap
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		items: make(map[string]interface{}),
	}
}

// Set stores a value under key. Setting an existing key overwrites the value
// but keeps the key's original position in iteration order.
func (m *OrderedMap) Set(key string, value interface{}) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = value
}

// Get returns the value stored under key and whether the key is present
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	value, ok := m.items[key]
	return value, ok
}

// Delete removes key and its value, reporting whether the key was present
func (m *OrderedMap) Delete(key string) bool {
	if _, ok := m.items[key]; !ok {
		return false
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *OrderedMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Values returns the values in insertion order
func (m *OrderedMap) Values() []interface{} {
	values := make([]interface{}, 0, len(m.keys))
	for _, k := range m.keys {
		values = append(values, m.items[k])
	}
	return values
}

// Len returns the number of stored entries
func (m *OrderedMap) Len() int {
	return len(m.keys)
}
