package lang

import (
	"github.com/ardnew/shibo/lang/ast"
)

// Value is any runtime value of the language.
//
// Null, Bool, Int, Float and Str have value semantics. List, Dict, Set and
// Instance are pointers: every alias observes mutation through any other.
type Value interface {
	// Type returns the name reported by the type() builtin. Instances
	// report the name of their class.
	Type() string
}

type (
	// Null is the absence of a value.
	Null struct{}

	// Bool is a boolean.
	Bool bool

	// Int is a 64-bit signed integer.
	Int int64

	// Float is a 64-bit floating point number.
	Float float64

	// Str is an immutable string.
	Str string

	// List is an ordered, mutable sequence.
	List struct {
		Elems []Value
	}
)

func (Null) Type() string   { return "null" }
func (Bool) Type() string   { return "bool" }
func (Int) Type() string    { return "int" }
func (Float) Type() string  { return "float" }
func (Str) Type() string    { return "str" }
func (*List) Type() string  { return "list" }
func (*Dict) Type() string  { return "dict" }
func (*Set) Type() string   { return "set" }
func (*Class) Type() string { return "class" }

func (*Function) Type() string { return "function" }
func (*Native) Type() string   { return "native" }

// Type returns the name of the instance's class.
func (i *Instance) Type() string { return i.Class.Name }

// NewList returns a list holding elems.
func NewList(elems ...Value) *List {
	return &List{Elems: elems}
}

// Len returns the number of elements in l.
func (l *List) Len() int { return len(l.Elems) }

// Append adds v to the end of l.
func (l *List) Append(v ...Value) { l.Elems = append(l.Elems, v...) }

// Function is a user-defined function or, when Self is set, a method bound
// to an instance.
type Function struct {
	Def *ast.FuncDef
	// Self is the receiver of a bound method.
	Self *Instance
	// Globals is the module environment the function was defined in.
	Globals *Env
	// Scope is the environment active at definition. It is only consulted
	// when lexical closures are enabled.
	Scope *Env
}

// Name returns the declared function name.
func (f *Function) Name() string { return f.Def.Name }

// Class is a user-defined class.
type Class struct {
	Name       string
	BaseName   string
	Interfaces []string
	Methods    map[string]*ast.FuncDef
	// Defaults holds attribute defaults evaluated once at definition. Every
	// instance starts with the same value references.
	Defaults map[string]Value
	// order records the declaration order of Defaults.
	order []string
	// scope resolves BaseName each time the base is needed.
	scope *Env
	// globals is the module environment methods are bound to.
	globals *Env
}

// Base looks up the class named by BaseName in the defining environment.
// It returns nil when there is no base or the name is not bound to a class.
func (c *Class) Base() *Class {
	if c.BaseName == "" || c.scope == nil {
		return nil
	}

	v, ok := c.scope.Get(c.BaseName)
	if !ok {
		return nil
	}

	base, _ := v.(*Class)
	if base == c {
		return nil
	}

	return base
}

// Method finds name in c or its base chain.
func (c *Class) Method(name string) (*ast.FuncDef, bool) {
	seen := map[*Class]bool{}

	for k := c; k != nil && !seen[k]; k = k.Base() {
		seen[k] = true

		if def, ok := k.Methods[name]; ok {
			return def, true
		}
	}

	return nil, false
}

// Extends reports whether c is other or derives from it.
func (c *Class) Extends(other *Class) bool {
	seen := map[*Class]bool{}

	for k := c; k != nil && !seen[k]; k = k.Base() {
		if k == other {
			return true
		}

		seen[k] = true
	}

	return false
}

// Instance is an object created by calling a class.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// Callable is implemented by host functions exposed to scripts.
type Callable interface {
	Call(c Caller, args []Value) (Value, error)
}

// NativeFunc adapts an ordinary function to [Callable].
type NativeFunc func(c Caller, args []Value) (Value, error)

// Call calls f.
func (f NativeFunc) Call(c Caller, args []Value) (Value, error) {
	return f(c, args)
}

// Native is a named host callable.
type Native struct {
	Name string
	Fn   Callable
}

// NewNative wraps fn as a script value.
func NewNative(name string, fn NativeFunc) *Native {
	return &Native{Name: name, Fn: fn}
}

// Call calls the wrapped function.
func (n *Native) Call(c Caller, args []Value) (Value, error) {
	return n.Fn.Call(c, args)
}

// Registry maps global names to host values, usually [*Native] functions
// or [*Dict] groups of them.
type Registry map[string]Value

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(v)
	case Int:
		return v != 0
	case Float:
		return v != 0
	case Str:
		return v != ""
	case *List:
		return len(v.Elems) > 0
	case *Dict:
		return v.Len() > 0
	case *Set:
		return v.Len() > 0
	}

	return true
}

// Copy returns a shallow copy of a list, dict or set. Other values are
// returned as is.
func Copy(v Value) Value {
	switch v := v.(type) {
	case *List:
		return NewList(append([]Value(nil), v.Elems...)...)
	case *Dict:
		d := NewDict()
		for k, e := range v.All() {
			_ = d.Set(k, e)
		}

		return d
	case *Set:
		s := NewSet()
		for _, e := range v.Elems() {
			_ = s.Add(e)
		}

		return s
	}

	return v
}

// DeepCopy recursively copies lists, dicts and sets. Instances, classes and
// functions are shared.
func DeepCopy(v Value) Value {
	switch v := v.(type) {
	case *List:
		out := make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = DeepCopy(e)
		}

		return NewList(out...)
	case *Dict:
		d := NewDict()
		for k, e := range v.All() {
			_ = d.Set(k, DeepCopy(e))
		}

		return d
	case *Set:
		return Copy(v)
	}

	return v
}

// Equal reports deep equality. Ints and floats compare numerically.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil, Null:
		switch b.(type) {
		case nil, Null:
			return true
		}

		return false
	case Int, Float:
		x, _ := toFloat(a)

		switch b := b.(type) {
		case Int:
			if ai, ok := a.(Int); ok {
				return ai == b
			}

			return x == float64(b)
		case Float:
			return x == float64(b)
		}

		return false
	case Bool:
		bb, ok := b.(Bool)

		return ok && a == bb
	case Str:
		bs, ok := b.(Str)

		return ok && a == bs
	case *List:
		bl, ok := b.(*List)
		if !ok || len(a.Elems) != len(bl.Elems) {
			return false
		}

		for i := range a.Elems {
			if !Equal(a.Elems[i], bl.Elems[i]) {
				return false
			}
		}

		return true
	case *Dict:
		bd, ok := b.(*Dict)
		if !ok || a.Len() != bd.Len() {
			return false
		}

		for k, v := range a.All() {
			w, ok := bd.Get(k)
			if !ok || !Equal(v, w) {
				return false
			}
		}

		return true
	case *Set:
		bs, ok := b.(*Set)
		if !ok || a.Len() != bs.Len() {
			return false
		}

		for _, e := range a.Elems() {
			if !bs.Has(e) {
				return false
			}
		}

		return true
	}

	return a == b
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	case Bool:
		if v {
			return 1, true
		}

		return 0, true
	}

	return 0, false
}
