package lang

import (
	"math"
	"strconv"
	"strings"
)

// Display returns the text print writes for v. Strings print bare at the
// top level and quoted inside containers.
func Display(v Value) string {
	var sb strings.Builder

	display(&sb, v, false, map[any]bool{})

	return sb.String()
}

// Repr returns the quoted form of v, as shown inside containers.
func Repr(v Value) string {
	var sb strings.Builder

	display(&sb, v, true, map[any]bool{})

	return sb.String()
}

// FormatFloat formats f so that it always reads back as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

func display(sb *strings.Builder, v Value, quote bool, seen map[any]bool) {
	switch v := v.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(v)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		sb.WriteString(FormatFloat(float64(v)))
	case Str:
		if quote {
			sb.WriteByte('"')
			sb.WriteString(string(v))
			sb.WriteByte('"')
		} else {
			sb.WriteString(string(v))
		}
	case *List:
		if seen[v] {
			sb.WriteString("[...]")

			return
		}

		seen[v] = true
		defer delete(seen, v)

		sb.WriteByte('[')

		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}

			display(sb, e, true, seen)
		}

		sb.WriteByte(']')
	case *Dict:
		if seen[v] {
			sb.WriteString("{...}")

			return
		}

		seen[v] = true
		defer delete(seen, v)

		sb.WriteByte('{')

		i := 0
		for k, e := range v.All() {
			if i > 0 {
				sb.WriteString(", ")
			}

			display(sb, k, true, seen)
			sb.WriteString(": ")
			display(sb, e, true, seen)

			i++
		}

		sb.WriteByte('}')
	case *Set:
		if v.Len() == 0 {
			sb.WriteString("set()")

			return
		}

		sb.WriteByte('{')

		for i, e := range v.Elems() {
			if i > 0 {
				sb.WriteString(", ")
			}

			display(sb, e, true, seen)
		}

		sb.WriteByte('}')
	case *Function:
		if v.Self != nil {
			sb.WriteString("<bound method " + v.Self.Class.Name + "." + v.Name() + ">")
		} else {
			sb.WriteString("<function " + v.Name() + ">")
		}
	case *Class:
		sb.WriteString("<class " + v.Name + ">")
	case *Instance:
		sb.WriteString("<" + v.Class.Name + " instance>")
	case *Native:
		sb.WriteString("<native " + v.Name + ">")
	default:
		sb.WriteString("<" + v.Type() + ">")
	}
}
