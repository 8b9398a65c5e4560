package builtin

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/shibo/lang"
)

func core() []*lang.Native {
	return []*lang.Native{
		native("append", appendFn),
		native("remove", removeFn),
		native("pop", popFn),
		native("sort", sortFn),
		native("reverse", reverseFn),
		native("keys", keysFn),
		native("values", valuesFn),
		native("len", lenFn),
		native("range", rangeFn),
		native("type", typeFn),
		native("str", strFn),
		native("int", intFn),
		native("float", floatFn),
		native("bool", boolFn),
		native("upper", upperFn),
		native("lower", lowerFn),
		native("split", splitFn),
		native("join", joinFn),
		native("input", inputFn),
		native("map", mapFn),
		native("filter", filterFn),
		native("reduce", reduceFn),
		native("copy", copyFn),
	}
}

// append(list, value) adds value to the end of list and returns list.
func appendFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("append", args, 2, 2); err != nil {
		return nil, err
	}

	l, err := arg[*lang.List]("append", args, 0)
	if err != nil {
		return nil, err
	}

	l.Append(args[1])

	return l, nil
}

// remove(list, value) deletes the first element equal to value.
// remove(dict, key) deletes key. remove(set, value) deletes value.
func removeFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("remove", args, 2, 2); err != nil {
		return nil, err
	}

	switch c := args[0].(type) {
	case *lang.List:
		i := slices.IndexFunc(c.Elems, func(e lang.Value) bool {
			return lang.Equal(e, args[1])
		})
		if i < 0 {
			return nil, lang.Faultf("remove(): %s not in list", lang.Repr(args[1]))
		}

		c.Elems = slices.Delete(c.Elems, i, i+1)

		return c, nil

	case *lang.Dict:
		if !c.Delete(args[1]) {
			return nil, lang.Faultf("remove(): key %s not in dict", lang.Repr(args[1]))
		}

		return c, nil

	case *lang.Set:
		if !c.Remove(args[1]) {
			return nil, lang.Faultf("remove(): %s not in set", lang.Repr(args[1]))
		}

		return c, nil
	}

	return nil, typeFault("remove", 0, "list, dict or set", args[0])
}

// pop(list[, index]) removes and returns the element at index, by default
// the last one. pop(dict, key) removes key and returns its value or null.
func popFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("pop", args, 1, 2); err != nil {
		return nil, err
	}

	if d, ok := args[0].(*lang.Dict); ok {
		if len(args) < 2 {
			return nil, arity("pop", args, 2, 2)
		}

		v, ok := d.Get(args[1])
		if !ok {
			return lang.Null{}, nil
		}

		d.Delete(args[1])

		return v, nil
	}

	l, err := arg[*lang.List]("pop", args, 0)
	if err != nil {
		return nil, err
	}

	if len(l.Elems) == 0 {
		return nil, lang.Faultf("pop from empty list")
	}

	i, err := optional("pop", args, 1, lang.Int(-1))
	if err != nil {
		return nil, err
	}

	n := lang.Int(len(l.Elems))
	if i < 0 {
		i += n
	}

	if i < 0 || i >= n {
		return nil, lang.Faultf("pop index out of range")
	}

	v := l.Elems[i]
	l.Elems = slices.Delete(l.Elems, int(i), int(i)+1)

	return v, nil
}

// sort(list) sorts list in place with the < operator and returns it.
func sortFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("sort", args, 1, 1); err != nil {
		return nil, err
	}

	l, err := arg[*lang.List]("sort", args, 0)
	if err != nil {
		return nil, err
	}

	var first error

	slices.SortStableFunc(l.Elems, func(a, b lang.Value) int {
		if first != nil {
			return 0
		}

		c, err := order(a, b)
		if err != nil {
			first = err
		}

		return c
	})

	if first != nil {
		return nil, first
	}

	return l, nil
}

func order(a, b lang.Value) (int, error) {
	less, err := lang.Binary("<", a, b)
	if err != nil {
		return 0, err
	}

	if lang.Truthy(less) {
		return -1, nil
	}

	more, err := lang.Binary(">", a, b)
	if err != nil {
		return 0, err
	}

	if lang.Truthy(more) {
		return 1, nil
	}

	return 0, nil
}

// reverse(list) reverses list in place and returns it. reverse(str)
// returns the reversed string.
func reverseFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("reverse", args, 1, 1); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case *lang.List:
		slices.Reverse(v.Elems)

		return v, nil
	case lang.Str:
		return lang.Str(reverseString(string(v))), nil
	}

	return nil, typeFault("reverse", 0, "list or str", args[0])
}

func reverseString(s string) string {
	r := []rune(s)
	slices.Reverse(r)

	return string(r)
}

func keysFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("keys", args, 1, 1); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case *lang.Dict:
		return lang.NewList(v.Keys()...), nil
	case *lang.Instance:
		return strList(slices.Sorted(maps.Keys(v.Fields))), nil
	}

	return nil, typeFault("keys", 0, "dict", args[0])
}

func valuesFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("values", args, 1, 1); err != nil {
		return nil, err
	}

	d, err := arg[*lang.Dict]("values", args, 0)
	if err != nil {
		return nil, err
	}

	return lang.NewList(d.Values()...), nil
}

// len counts characters of a string and elements of a container.
func lenFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("len", args, 1, 1); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case lang.Str:
		return lang.Int(utf8.RuneCountInString(string(v))), nil
	case *lang.List:
		return lang.Int(v.Len()), nil
	case *lang.Dict:
		return lang.Int(v.Len()), nil
	case *lang.Set:
		return lang.Int(v.Len()), nil
	case *lang.Instance:
		return lang.Int(len(v.Fields)), nil
	}

	return nil, lang.Faultf("object of type '%s' has no len()", args[0].Type())
}

// range([start,] stop[, step]) returns the integers from start up to but
// not including stop.
func rangeFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("range", args, 1, 3); err != nil {
		return nil, err
	}

	bounds := make([]int64, len(args))

	for i := range args {
		n, err := integer("range", args, i)
		if err != nil {
			return nil, err
		}

		bounds[i] = n
	}

	start, stop, step := int64(0), bounds[0], int64(1)

	if len(bounds) > 1 {
		start, stop = bounds[0], bounds[1]
	}

	if len(bounds) > 2 {
		step = bounds[2]
	}

	if step == 0 {
		return nil, lang.Faultf("range() step must not be zero")
	}

	var out []lang.Value

	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, lang.Int(i))

		// The next step would pass stop or overflow.
		if (step > 0 && i > stop-step) || (step < 0 && i < stop-step) {
			break
		}
	}

	return lang.NewList(out...), nil
}

func typeFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("type", args, 1, 1); err != nil {
		return nil, err
	}

	return lang.Str(args[0].Type()), nil
}

func strFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("str", args, 0, 1); err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return lang.Str(""), nil
	}

	return lang.Str(lang.Display(args[0])), nil
}

// int converts numbers, booleans and numeric strings. Floats truncate
// toward zero.
func intFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("int", args, 0, 1); err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return lang.Int(0), nil
	}

	switch v := args[0].(type) {
	case lang.Int:
		return v, nil
	case lang.Bool:
		if v {
			return lang.Int(1), nil
		}

		return lang.Int(0), nil
	case lang.Float:
		f := math.Trunc(float64(v))
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, lang.Faultf("cannot convert float %s to int", lang.Display(v))
		}

		return lang.Int(f), nil
	case lang.Str:
		s := strings.ReplaceAll(strings.TrimSpace(string(v)), "_", "")

		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, lang.Faultf("invalid literal for int(): %s", lang.Repr(v))
		}

		return lang.Int(n), nil
	}

	return nil, typeFault("int", 0, "number or str", args[0])
}

func floatFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("float", args, 0, 1); err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return lang.Float(0), nil
	}

	if s, ok := args[0].(lang.Str); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if err != nil {
			return nil, lang.Faultf("could not convert string to float: %s", lang.Repr(s))
		}

		return lang.Float(f), nil
	}

	f, err := number("float", args, 0)
	if err != nil {
		return nil, err
	}

	return lang.Float(f), nil
}

func boolFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("bool", args, 0, 1); err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return lang.Bool(false), nil
	}

	return lang.Bool(lang.Truthy(args[0])), nil
}

func upperFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("upper", args, 1, 1); err != nil {
		return nil, err
	}

	s, err := str("upper", args, 0)
	if err != nil {
		return nil, err
	}

	return lang.Str(strings.ToUpper(s)), nil
}

func lowerFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("lower", args, 1, 1); err != nil {
		return nil, err
	}

	s, err := str("lower", args, 0)
	if err != nil {
		return nil, err
	}

	return lang.Str(strings.ToLower(s)), nil
}

// split(s[, sep]) splits s around sep, or around runs of white space when
// sep is absent or null.
func splitFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("split", args, 1, 2); err != nil {
		return nil, err
	}

	s, err := str("split", args, 0)
	if err != nil {
		return nil, err
	}

	sep, err := optional[lang.Str]("split", args, 1, "")
	if err != nil {
		return nil, err
	}

	if len(args) < 2 || args[1] == (lang.Null{}) {
		return strList(strings.Fields(s)), nil
	}

	if sep == "" {
		return nil, lang.Faultf("split(): empty separator")
	}

	return strList(strings.Split(s, string(sep))), nil
}

// join(list[, sep]) concatenates the display form of each element.
func joinFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("join", args, 1, 2); err != nil {
		return nil, err
	}

	l, err := arg[*lang.List]("join", args, 0)
	if err != nil {
		return nil, err
	}

	sep, err := optional[lang.Str]("join", args, 1, "")
	if err != nil {
		return nil, err
	}

	return lang.Str(strings.Join(displayAll(l.Elems), string(sep))), nil
}

// input([prompt]) writes prompt and reads one line, without its line
// terminator.
func inputFn(c lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("input", args, 0, 1); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		if _, err := io.WriteString(c.Stdout(), lang.Display(args[0])); err != nil {
			return nil, err
		}
	}

	line, err := readLine(c.Stdin())
	if err != nil {
		return nil, err
	}

	return lang.Str(line), nil
}

// readLine reads a single byte at a time so that no input beyond the line
// is consumed from r.
func readLine(r io.Reader) (string, error) {
	var (
		buf bytes.Buffer
		b   [1]byte
	)

	for {
		n, err := r.Read(b[:])
		if n > 0 {
			if b[0] == '\n' {
				break
			}

			buf.WriteByte(b[0])
		}

		if errors.Is(err, io.EOF) {
			if buf.Len() == 0 {
				return "", lang.Faultf("EOF when reading a line")
			}

			break
		}

		if err != nil {
			return "", err
		}
	}

	return strings.TrimSuffix(buf.String(), "\r"), nil
}

// map(fn, list) returns the results of calling fn on each element.
func mapFn(c lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("map", args, 2, 2); err != nil {
		return nil, err
	}

	elems, err := iterable("map", args, 1)
	if err != nil {
		return nil, err
	}

	out := make([]lang.Value, len(elems))

	for i, e := range elems {
		v, err := c.Call(c.Context(), args[0], e)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return lang.NewList(out...), nil
}

// filter(fn, list) returns the elements for which fn returns a truthy
// value.
func filterFn(c lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("filter", args, 2, 2); err != nil {
		return nil, err
	}

	elems, err := iterable("filter", args, 1)
	if err != nil {
		return nil, err
	}

	var out []lang.Value

	for _, e := range elems {
		v, err := c.Call(c.Context(), args[0], e)
		if err != nil {
			return nil, err
		}

		if lang.Truthy(v) {
			out = append(out, e)
		}
	}

	return lang.NewList(out...), nil
}

// reduce(fn, list[, initial]) folds list from the left. Without initial the
// first element seeds the fold.
func reduceFn(c lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("reduce", args, 2, 3); err != nil {
		return nil, err
	}

	elems, err := iterable("reduce", args, 1)
	if err != nil {
		return nil, err
	}

	var acc lang.Value

	switch {
	case len(args) == 3:
		acc = args[2]
	case len(elems) == 0:
		return nil, lang.Faultf("reduce() of empty sequence with no initial value")
	default:
		acc, elems = elems[0], elems[1:]
	}

	for _, e := range elems {
		acc, err = c.Call(c.Context(), args[0], acc, e)
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func iterable(fn string, args []lang.Value, i int) ([]lang.Value, error) {
	switch v := args[i].(type) {
	case *lang.List:
		return slices.Clone(v.Elems), nil
	case *lang.Set:
		return v.Elems(), nil
	case *lang.Dict:
		return v.Keys(), nil
	case lang.Str:
		var out []lang.Value
		for _, r := range string(v) {
			out = append(out, lang.Str(string(r)))
		}

		return out, nil
	}

	return nil, typeFault(fn, i, "list", args[i])
}

// copy(x) returns a shallow copy of a list, dict or set.
func copyFn(_ lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("copy", args, 1, 1); err != nil {
		return nil, err
	}

	return lang.Copy(args[0]), nil
}
