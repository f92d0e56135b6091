package nn

import (
	"fmt"
	"iter"
)

// OrderedDict is a string-keyed collection that iterates in insertion order.
//
// Modules use it for their parameters, buffers and children so that
// iteration (and therefore state dicts, cloning and printing) is
// deterministic. Entries can only be added through module registration.
type OrderedDict[V any] struct {
	index map[string]int
	keys  []string
	vals  []V
}

func newOrderedDict[V any]() *OrderedDict[V] {
	return &OrderedDict[V]{index: make(map[string]int)}
}

// insert adds key. Panics on an empty or duplicate key.
func (d *OrderedDict[V]) insert(kind, key string, v V) {
	if key == "" {
		panic(fmt.Sprintf("nn: %s name must not be empty", kind))
	}
	if _, ok := d.index[key]; ok {
		panic(fmt.Sprintf("nn: %s %q is already registered", kind, key))
	}
	d.index[key] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, v)
}

// Len returns the number of entries.
func (d *OrderedDict[V]) Len() int {
	return len(d.keys)
}

// Get returns the value stored under key.
func (d *OrderedDict[V]) Get(key string) (V, bool) {
	i, ok := d.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return d.vals[i], true
}

// Contains reports whether key is present.
func (d *OrderedDict[V]) Contains(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Keys returns the keys in insertion order.
func (d *OrderedDict[V]) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Values returns the values in insertion order.
func (d *OrderedDict[V]) Values() []V {
	return append([]V(nil), d.vals...)
}

// All iterates over key/value pairs in insertion order.
func (d *OrderedDict[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range d.keys {
			if !yield(k, d.vals[i]) {
				return
			}
		}
	}
}
