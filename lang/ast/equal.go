package ast

import "reflect"

var atType = reflect.TypeFor[At]()

// Equal reports whether a and b are structurally identical, ignoring source
// positions. Nil and empty slices compare equal.
func Equal(a, b Node) bool {
	return equalValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func equalValue(a, b reflect.Value) bool {
	if a.IsValid() != b.IsValid() {
		return false
	}

	if !a.IsValid() {
		return true
	}

	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Interface, reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}

		return equalValue(a.Elem(), b.Elem())

	case reflect.Struct:
		for i := range a.NumField() {
			if a.Type().Field(i).Type == atType {
				continue
			}

			if !equalValue(a.Field(i), b.Field(i)) {
				return false
			}
		}

		return true

	case reflect.Slice:
		if a.Len() != b.Len() {
			return false
		}

		for i := range a.Len() {
			if !equalValue(a.Index(i), b.Index(i)) {
				return false
			}
		}

		return true

	default:
		return a.Interface() == b.Interface()
	}
}
