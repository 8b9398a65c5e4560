package lang

import (
	"iter"
	"maps"
	"math"
	"slices"
)

type (
	nullKey  struct{}
	floatKey float64
)

// hashKey maps a value to a comparable Go key. Ints and integral floats
// share a key so that 1 and 1.0 address the same entry. Lists, dicts and
// sets are unhashable.
func hashKey(v Value) (any, error) {
	switch v := v.(type) {
	case nil, Null:
		return nullKey{}, nil
	case Bool:
		return bool(v), nil
	case Int:
		return int64(v), nil
	case Float:
		f := float64(v)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil
		}

		return floatKey(f), nil
	case Str:
		return string(v), nil
	case *List, *Dict, *Set:
		return nil, Faultf("unhashable type: '%s'", v.Type())
	}

	// Reference values hash by identity.
	return v, nil
}

// Dict is an insertion-ordered mapping with unique keys.
type Dict struct {
	keys  []Value
	vals  []Value
	index map[any]int
}

// NewDict returns an empty dict.
func NewDict() *Dict {
	return &Dict{index: map[any]int{}}
}

// DictOf builds a dict with string keys taken from pairs in sorted order.
func DictOf(pairs map[string]Value) *Dict {
	d := NewDict()

	for _, k := range slices.Sorted(maps.Keys(pairs)) {
		d.SetStr(k, pairs[k])
	}

	return d
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Get returns the value stored under k.
func (d *Dict) Get(k Value) (Value, bool) {
	h, err := hashKey(k)
	if err != nil {
		return nil, false
	}

	i, ok := d.index[h]
	if !ok {
		return nil, false
	}

	return d.vals[i], true
}

// GetStr returns the value stored under the string key k.
func (d *Dict) GetStr(k string) (Value, bool) { return d.Get(Str(k)) }

// Set stores v under k, keeping the original position of an existing key.
func (d *Dict) Set(k, v Value) error {
	h, err := hashKey(k)
	if err != nil {
		return err
	}

	if d.index == nil {
		d.index = map[any]int{}
	}

	if i, ok := d.index[h]; ok {
		d.vals[i] = v

		return nil
	}

	d.index[h] = len(d.keys)
	d.keys = append(d.keys, k)
	d.vals = append(d.vals, v)

	return nil
}

// SetStr stores v under the string key k.
func (d *Dict) SetStr(k string, v Value) { _ = d.Set(Str(k), v) }

// Delete removes k and reports whether it was present.
func (d *Dict) Delete(k Value) bool {
	h, err := hashKey(k)
	if err != nil {
		return false
	}

	i, ok := d.index[h]
	if !ok {
		return false
	}

	d.keys = slices.Delete(d.keys, i, i+1)
	d.vals = slices.Delete(d.vals, i, i+1)
	delete(d.index, h)

	for j := i; j < len(d.keys); j++ {
		hk, _ := hashKey(d.keys[j])
		d.index[hk] = j
	}

	return true
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value { return slices.Clone(d.keys) }

// Values returns the values in insertion order.
func (d *Dict) Values() []Value { return slices.Clone(d.vals) }

// All iterates entries in insertion order.
func (d *Dict) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for i := range d.keys {
			if !yield(d.keys[i], d.vals[i]) {
				return
			}
		}
	}
}

// Set is a collection of unique hashable values. Iteration follows
// insertion order.
type Set struct {
	elems []Value
	index map[any]int
}

// NewSet returns a set holding elems.
func NewSet(elems ...Value) *Set {
	s := &Set{index: map[any]int{}}

	for _, e := range elems {
		_ = s.Add(e)
	}

	return s
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.elems) }

// Add inserts v if absent.
func (s *Set) Add(v Value) error {
	h, err := hashKey(v)
	if err != nil {
		return err
	}

	if s.index == nil {
		s.index = map[any]int{}
	}

	if _, ok := s.index[h]; !ok {
		s.index[h] = len(s.elems)
		s.elems = append(s.elems, v)
	}

	return nil
}

// Has reports whether v is an element.
func (s *Set) Has(v Value) bool {
	h, err := hashKey(v)
	if err != nil {
		return false
	}

	_, ok := s.index[h]

	return ok
}

// Remove deletes v and reports whether it was present.
func (s *Set) Remove(v Value) bool {
	h, err := hashKey(v)
	if err != nil {
		return false
	}

	i, ok := s.index[h]
	if !ok {
		return false
	}

	s.elems = slices.Delete(s.elems, i, i+1)
	delete(s.index, h)

	for j := i; j < len(s.elems); j++ {
		hk, _ := hashKey(s.elems[j])
		s.index[hk] = j
	}

	return true
}

// Elems returns the elements in insertion order.
func (s *Set) Elems() []Value { return slices.Clone(s.elems) }
