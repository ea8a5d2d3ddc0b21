package scan

// Index is the trait surface shared by the engine's two index flavors:
// an unordered hash index (used by Space for its model-name map) and
// an ordered-insertion index (used by a Model's field
// map, which must preserve declaration order under lookup-by-name).
//
// FreshEntry reports whether the insert happened: false means the key
// was already present and nothing was changed, matching the KV
// engine's "fresh_entry returns an optional vacant slot" contract.
type Index[K comparable, V any] interface {
	Get(key K) (V, bool)
	FreshEntry(key K, value V) bool
	Remove(key K) (V, bool)
	Len() int
	// Iterate calls fn for every entry in the index's canonical order
	// (insertion order for OrderedIndex, unspecified for HashIndex) and
	// stops early if fn returns false.
	Iterate(fn func(K, V) bool)
}

// HashIndex is a plain, unordered Index backed by a Go map. It is the
// concrete type behind a Space's model-name map.
type HashIndex[K comparable, V any] struct {
	m map[K]V
}

// NewHashIndex builds an empty HashIndex.
func NewHashIndex[K comparable, V any]() *HashIndex[K, V] {
	return &HashIndex[K, V]{m: make(map[K]V)}
}

func (h *HashIndex[K, V]) Get(key K) (V, bool) {
	v, ok := h.m[key]
	return v, ok
}

func (h *HashIndex[K, V]) FreshEntry(key K, value V) bool {
	if _, exists := h.m[key]; exists {
		return false
	}
	h.m[key] = value
	return true
}

// Set unconditionally installs value, overwriting any existing entry.
func (h *HashIndex[K, V]) Set(key K, value V) {
	h.m[key] = value
}

func (h *HashIndex[K, V]) Remove(key K) (V, bool) {
	v, ok := h.m[key]
	if ok {
		delete(h.m, key)
	}
	return v, ok
}

func (h *HashIndex[K, V]) Len() int { return len(h.m) }

func (h *HashIndex[K, V]) Iterate(fn func(K, V) bool) {
	for k, v := range h.m {
		if !fn(k, v) {
			return
		}
	}
}

// OrderedIndex is an Index that preserves insertion order: a hash map
// for O(1) lookup plus a parallel slice of keys recording declaration
// order, per the "ordered-insertion field map" design note. Used by
// Model for its field-name -> Field mapping, where persisted field
// order must round-trip exactly.
type OrderedIndex[K comparable, V any] struct {
	m     map[K]V
	order []K
}

// NewOrderedIndex builds an empty OrderedIndex.
func NewOrderedIndex[K comparable, V any]() *OrderedIndex[K, V] {
	return &OrderedIndex[K, V]{m: make(map[K]V)}
}

func (o *OrderedIndex[K, V]) Get(key K) (V, bool) {
	v, ok := o.m[key]
	return v, ok
}

func (o *OrderedIndex[K, V]) FreshEntry(key K, value V) bool {
	if _, exists := o.m[key]; exists {
		return false
	}
	o.m[key] = value
	o.order = append(o.order, key)
	return true
}

// Set overwrites the value at an already-present key without touching
// its declaration-order position; used by ALTER MODEL's UPDATE clause,
// which replaces a field's definition in place.
func (o *OrderedIndex[K, V]) Set(key K, value V) {
	if _, exists := o.m[key]; !exists {
		o.order = append(o.order, key)
	}
	o.m[key] = value
}

func (o *OrderedIndex[K, V]) Remove(key K) (V, bool) {
	v, ok := o.m[key]
	if !ok {
		return v, false
	}
	delete(o.m, key)
	for i, k := range o.order {
		if k == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return v, true
}

func (o *OrderedIndex[K, V]) Len() int { return len(o.order) }

// Iterate walks entries in declaration order — the invariant the
// persistence layer's field-map codec depends on.
func (o *OrderedIndex[K, V]) Iterate(fn func(K, V) bool) {
	for _, k := range o.order {
		if !fn(k, o.m[k]) {
			return
		}
	}
}

// Keys returns the declaration-ordered key list. Used by the field-map
// encoder, which must walk fields in the order they were declared.
func (o *OrderedIndex[K, V]) Keys() []K {
	out := make([]K, len(o.order))
	copy(out, o.order)
	return out
}
