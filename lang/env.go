package lang

import (
	"iter"
	"maps"
	"slices"
)

// Env is a mutable set of name bindings.
//
// Writes always land in the receiver. Reads fall back to the parent when a
// name is not bound locally. A function call gets a fresh Env whose parent
// is the module environment of the function, so the call sees globals and
// its own parameters but never the locals of its caller.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv returns an empty environment with no parent.
func NewEnv() *Env {
	return &Env{vars: map[string]Value{}}
}

// Child returns an empty environment that reads through to e.
func (e *Env) Child() *Env {
	return &Env{vars: map[string]Value{}, parent: e}
}

// Get looks up name in e and then its parents.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Lookup returns the binding for name or Null.
func (e *Env) Lookup(name string) Value {
	if v, ok := e.Get(name); ok {
		return v
	}

	return Null{}
}

// Set binds name in e.
func (e *Env) Set(name string, v Value) {
	if e.vars == nil {
		e.vars = map[string]Value{}
	}

	e.vars[name] = v
}

// Has reports whether name is bound locally.
func (e *Env) Has(name string) bool {
	_, ok := e.vars[name]

	return ok
}

// Len returns the number of local bindings.
func (e *Env) Len() int { return len(e.vars) }

// Names returns the local names in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// All iterates local bindings in name order.
func (e *Env) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range e.Names() {
			if !yield(name, e.vars[name]) {
				return
			}
		}
	}
}

// Merge copies every local binding of other into e.
func (e *Env) Merge(other *Env) {
	if e.vars == nil {
		e.vars = map[string]Value{}
	}

	maps.Copy(e.vars, other.vars)
}
