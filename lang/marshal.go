package lang

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"
)

// ToNative converts v to plain Go data: nil, bool, int64, float64, string,
// []any and map[string]any. Dict keys are converted with [Display].
// Instances become a map of their fields. Functions and classes become
// their display text.
func ToNative(v Value) any {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(v)
	case Int:
		return int64(v)
	case Float:
		return float64(v)
	case Str:
		return string(v)
	case *List:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = ToNative(e)
		}

		return out
	case *Set:
		elems := v.Elems()

		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = ToNative(e)
		}

		return out
	case *Dict:
		out := make(map[string]any, v.Len())
		for k, e := range v.All() {
			out[Display(k)] = ToNative(e)
		}

		return out
	case *Instance:
		out := make(map[string]any, len(v.Fields))
		for k, e := range v.Fields {
			out[k] = ToNative(e)
		}

		return out
	}

	return Display(v)
}

// FromNative converts Go data into a [Value]. Maps become dicts with keys
// in sorted order.
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return Int(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return Str(x), nil
	case []byte:
		return Str(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Int(n), nil
		}

		f, err := x.Float64()
		if err != nil {
			return nil, Faultf("invalid number %q", x.String())
		}

		return Float(f), nil
	case time.Time:
		return Str(x.Format(time.RFC3339)), nil
	case time.Duration:
		return Float(x.Seconds()), nil
	case []any:
		out := make([]Value, len(x))

		for i, e := range x {
			v, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return NewList(out...), nil
	case map[string]any:
		d := NewDict()

		for _, k := range slices.Sorted(maps.Keys(x)) {
			v, err := FromNative(x[k])
			if err != nil {
				return nil, err
			}

			d.SetStr(k, v)
		}

		return d, nil
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Value, rv.Len())

		for i := range rv.Len() {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return NewList(out...), nil

	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})

		d := NewDict()

		for _, k := range keys {
			kv, err := FromNative(k.Interface())
			if err != nil {
				return nil, err
			}

			v, err := FromNative(rv.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}

			if err := d.Set(kv, v); err != nil {
				return nil, err
			}
		}

		return d, nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}

		return FromNative(rv.Elem().Interface())
	}

	if !rv.IsValid() {
		return Null{}, nil
	}

	return nil, Faultf("cannot convert %s to a script value", rv.Type())
}
