package ast

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode"
)

// ToMap converts a node into nested maps and slices suitable for JSON or
// YAML encoding. Every node becomes a map with a "node" key naming its type
// and a "line" key when the position is known; remaining fields use
// lower-case keys. Empty fields are omitted.
func ToMap(n Node) any {
	return toNative(reflect.ValueOf(n))
}

func toNative(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}

		return toNative(v.Elem())

	case reflect.Struct:
		m := make(map[string]any, v.NumField()+1)

		if _, isNode := v.Addr().Interface().(Node); isNode {
			m["node"] = v.Type().Name()
		}

		for i := range v.NumField() {
			f := v.Type().Field(i)
			if f.Type == atType {
				if line := v.Field(i).Interface().(At).Line; line > 0 {
					m["line"] = line
				}

				continue
			}

			if v.Field(i).IsZero() {
				continue
			}

			m[lowerFirst(f.Name)] = toNative(v.Field(i))
		}

		return m

	case reflect.Slice:
		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = toNative(v.Index(i))
		}

		return out

	default:
		return v.Interface()
	}
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])

	return string(r)
}

// Dump writes an indented outline of the tree rooted at n, one node or field
// per line.
func Dump(w io.Writer, n Node) error {
	var sb strings.Builder

	dump(&sb, ToMap(n), 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

var dumpOrder = []string{
	"name", "module", "op", "var", "base", "interfaces", "names", "all",
	"params", "value", "lexeme", "target", "cond", "init", "post", "iter",
	"x", "callee", "left", "right", "then", "else", "index", "lo", "hi",
	"args", "elems", "entries", "key", "methods", "body", "catch",
}

func dump(sb *strings.Builder, v any, depth int) {
	pad := strings.Repeat("  ", depth)

	switch v := v.(type) {
	case map[string]any:
		head, _ := v["node"].(string)
		if line, ok := v["line"].(int); ok {
			head = fmt.Sprintf("%s @%d", head, line)
		}

		if head != "" {
			sb.WriteString(pad + head + "\n")
			depth++
			pad += "  "
		}

		for _, key := range dumpOrder {
			child, ok := v[key]
			if !ok {
				continue
			}

			switch child.(type) {
			case map[string]any, []any:
				sb.WriteString(pad + key + ":\n")
				dump(sb, child, depth+1)
			default:
				fmt.Fprintf(sb, "%s%s: %v\n", pad, key, child)
			}
		}

	case []any:
		for _, e := range v {
			dump(sb, e, depth)
		}

	default:
		fmt.Fprintf(sb, "%s%v\n", pad, v)
	}
}
