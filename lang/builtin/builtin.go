// Package builtin provides the host functions every script can call.
//
// [Default] returns the global registry: list and string helpers,
// conversions, higher-order functions and a set of dict-valued groups
// (math, file, os, re, json, and so on). [Modules] resolves the built-in
// modules math, utils and string for import statements that find no
// source file.
package builtin

import (
	"fmt"
	"slices"

	"github.com/ardnew/shibo/lang"
)

// Default returns a fresh registry of all built-in functions and groups.
// The registry is safe to modify.
func Default() lang.Registry {
	reg := lang.Registry{}

	for _, n := range core() {
		reg[n.Name] = n
	}

	for name, members := range groups() {
		reg[name] = lang.DictOf(members)
	}

	return reg
}

// Names lists the globals provided by [Default] together with the members
// of each group, as "group.member", in sorted order.
func Names() []string {
	var names []string

	for name, v := range Default() {
		names = append(names, name)

		if d, ok := v.(*lang.Dict); ok {
			for _, k := range d.Keys() {
				names = append(names, name+"."+lang.Display(k))
			}
		}
	}

	slices.Sort(names)

	return names
}

func groups() map[string]map[string]lang.Value {
	return map[string]map[string]lang.Value{
		"math":   mathGroup(),
		"file":   fileGroup(),
		"crypto": cryptoGroup(),
		"os":     osGroup(),
		"random": randomGroup(),
		"url":    urlGroup(),
		"base64": base64Group(),
		"json":   jsonGroup(),
		"yaml":   yamlGroup(),
		"time":   timeGroup(),
		"re":     reGroup(),
		"text":   textGroup(),
		"expr":   exprGroup(),
	}
}

func native(name string, fn lang.NativeFunc) *lang.Native {
	return lang.NewNative(name, fn)
}

func members(natives ...*lang.Native) map[string]lang.Value {
	m := make(map[string]lang.Value, len(natives))
	for _, n := range natives {
		m[n.Name] = n
	}

	return m
}

// arity checks that fn received between lo and hi arguments. A negative hi
// means no upper bound.
func arity(fn string, args []lang.Value, lo, hi int) error {
	n := len(args)
	if n >= lo && (hi < 0 || n <= hi) {
		return nil
	}

	want := fmt.Sprint(lo)

	switch {
	case hi < 0:
		want = fmt.Sprintf("at least %d", lo)
	case hi != lo:
		want = fmt.Sprintf("%d to %d", lo, hi)
	}

	return &lang.Fault{
		Msg:   fmt.Sprintf("%s() expected %s arguments, got %d", fn, want, n),
		Cause: lang.ErrArity,
	}
}

// arg returns args[i] as a T.
func arg[T lang.Value](fn string, args []lang.Value, i int) (T, error) {
	var zero T

	if i >= len(args) {
		return zero, &lang.Fault{
			Msg:   fmt.Sprintf("%s() missing argument %d", fn, i+1),
			Cause: lang.ErrArity,
		}
	}

	v, ok := args[i].(T)
	if !ok {
		return zero, typeFault(fn, i, zero.Type(), args[i])
	}

	return v, nil
}

// optional returns args[i] as a T, or def when the argument is absent or
// null.
func optional[T lang.Value](fn string, args []lang.Value, i int, def T) (T, error) {
	if i >= len(args) {
		return def, nil
	}

	if _, ok := args[i].(lang.Null); ok {
		return def, nil
	}

	return arg[T](fn, args, i)
}

func str(fn string, args []lang.Value, i int) (string, error) {
	s, err := arg[lang.Str](fn, args, i)

	return string(s), err
}

func integer(fn string, args []lang.Value, i int) (int64, error) {
	if i < len(args) {
		if b, ok := args[i].(lang.Bool); ok {
			if b {
				return 1, nil
			}

			return 0, nil
		}
	}

	n, err := arg[lang.Int](fn, args, i)

	return int64(n), err
}

func number(fn string, args []lang.Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, &lang.Fault{
			Msg:   fmt.Sprintf("%s() missing argument %d", fn, i+1),
			Cause: lang.ErrArity,
		}
	}

	switch v := args[i].(type) {
	case lang.Int:
		return float64(v), nil
	case lang.Float:
		return float64(v), nil
	case lang.Bool:
		if v {
			return 1, nil
		}

		return 0, nil
	}

	return 0, typeFault(fn, i, "number", args[i])
}

func typeFault(fn string, i int, want string, got lang.Value) *lang.Fault {
	return &lang.Fault{
		Msg: fmt.Sprintf(
			"%s() argument %d must be %s, not %s", fn, i+1, want, got.Type(),
		),
		Cause: lang.ErrType,
	}
}

func displayAll(vals []lang.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = lang.Display(v)
	}

	return out
}

func strList(ss []string) *lang.List {
	out := make([]lang.Value, len(ss))
	for i, s := range ss {
		out[i] = lang.Str(s)
	}

	return lang.NewList(out...)
}
