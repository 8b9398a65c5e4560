package lang

import (
	"math"
	"strings"
)

func operandError(op string, l, r Value) *Fault {
	f := Faultf("unsupported operand type(s) for %s: '%s' and '%s'", op, l.Type(), r.Type())
	f.Cause = ErrType

	return f
}

// integers reports whether both operands are Int or Bool, and returns them
// as int64.
func integers(l, r Value) (int64, int64, bool) {
	a, ok := asInt(l)
	if !ok {
		return 0, 0, false
	}

	b, ok := asInt(r)

	return a, b, ok
}

func asInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case Int:
		return int64(v), true
	case Bool:
		if v {
			return 1, true
		}

		return 0, true
	}

	return 0, false
}

func numbers(l, r Value) (float64, float64, bool) {
	a, ok := toFloat(l)
	if !ok {
		return 0, 0, false
	}

	b, ok := toFloat(r)

	return a, b, ok
}

// Binary applies a binary operator other than the short-circuiting && and
// ||, and instanceof.
func Binary(op string, l, r Value) (Value, error) {
	switch op {
	case "+":
		return add(l, r)
	case "-", "*", "/", "//", "%":
		return arith(op, l, r)
	case "==":
		return Bool(Equal(l, r)), nil
	case "!=":
		return Bool(!Equal(l, r)), nil
	case "<", ">", "<=", ">=":
		return compare(op, l, r)
	case "&", "|", "^", "<<", ">>", ">>>":
		return bitwise(op, l, r)
	}

	return nil, Faultf("unknown operator '%s'", op)
}

func add(l, r Value) (Value, error) {
	ls, lok := l.(Str)
	rs, rok := r.(Str)

	switch {
	case lok && rok:
		return ls + rs, nil
	case lok || rok:
		return Str(Display(l) + Display(r)), nil
	}

	if ll, ok := l.(*List); ok {
		if rl, ok := r.(*List); ok {
			out := make([]Value, 0, len(ll.Elems)+len(rl.Elems))

			return NewList(append(append(out, ll.Elems...), rl.Elems...)...), nil
		}
	}

	return arith("+", l, r)
}

// maxRepeat bounds the element count of a repeated sequence.
const maxRepeat = 1 << 28

func tooLong(size int, n int64) bool {
	return n > 0 && int64(size) > maxRepeat/n
}

// repeat returns seq repeated n times. A nil Value with ok set means the
// result would exceed maxRepeat elements.
func repeat(seq Value, n int64) (Value, bool) {
	n = max(n, 0)

	if l, ok := length(seq); ok && l == 0 {
		n = 0
	}

	switch s := seq.(type) {
	case Str:
		if tooLong(len(s), n) {
			return nil, true
		}

		return Str(strings.Repeat(string(s), int(n))), true
	case *List:
		if tooLong(len(s.Elems), n) {
			return nil, true
		}

		out := make([]Value, 0, len(s.Elems)*int(n))
		for range n {
			out = append(out, s.Elems...)
		}

		return NewList(out...), true
	}

	return nil, false
}

func length(seq Value) (int, bool) {
	switch s := seq.(type) {
	case Str:
		return len(s), true
	case *List:
		return len(s.Elems), true
	}

	return 0, false
}

func repeated(v Value) (Value, error) {
	if v == nil {
		f := Faultf("repeated sequence is too long")
		f.Cause = ErrType

		return nil, f
	}

	return v, nil
}

func arith(op string, l, r Value) (Value, error) {
	if op == "*" {
		if n, ok := r.(Int); ok {
			if v, ok := repeat(l, int64(n)); ok {
				return repeated(v)
			}
		}

		if n, ok := l.(Int); ok {
			if v, ok := repeat(r, int64(n)); ok {
				return repeated(v)
			}
		}
	}

	if a, b, ok := integers(l, r); ok {
		switch op {
		case "+":
			return Int(a + b), nil
		case "-":
			return Int(a - b), nil
		case "*":
			return Int(a * b), nil
		case "/":
			if b == 0 {
				return nil, Faultf("division by zero")
			}

			return Float(float64(a) / float64(b)), nil
		case "//":
			if b == 0 {
				return nil, Faultf("integer division by zero")
			}

			return Int(floorDiv(a, b)), nil
		case "%":
			if b == 0 {
				return nil, Faultf("integer modulo by zero")
			}

			return Int(a - floorDiv(a, b)*b), nil
		}
	}

	a, b, ok := numbers(l, r)
	if !ok {
		return nil, operandError(op, l, r)
	}

	switch op {
	case "+":
		return Float(a + b), nil
	case "-":
		return Float(a - b), nil
	case "*":
		return Float(a * b), nil
	case "/":
		if b == 0 {
			return nil, Faultf("division by zero")
		}

		return Float(a / b), nil
	case "//":
		if b == 0 {
			return nil, Faultf("float division by zero")
		}

		return Float(math.Floor(a / b)), nil
	case "%":
		if b == 0 {
			return nil, Faultf("float modulo by zero")
		}

		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}

		return Float(m), nil
	}

	return nil, operandError(op, l, r)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

func compare(op string, l, r Value) (Value, error) {
	var c int

	switch {
	case isNumber(l) && isNumber(r):
		if a, b, ok := integers(l, r); ok {
			c = cmpInt(a, b)

			break
		}

		a, b, _ := numbers(l, r)

		switch op {
		case "<":
			return Bool(a < b), nil
		case ">":
			return Bool(a > b), nil
		case "<=":
			return Bool(a <= b), nil
		}

		return Bool(a >= b), nil
	default:
		ls, lok := l.(Str)
		rs, rok := r.(Str)

		if !lok || !rok {
			f := Faultf("'%s' not supported between instances of '%s' and '%s'",
				op, l.Type(), r.Type())
			f.Cause = ErrType

			return nil, f
		}

		c = strings.Compare(string(ls), string(rs))
	}

	switch op {
	case "<":
		return Bool(c < 0), nil
	case ">":
		return Bool(c > 0), nil
	case "<=":
		return Bool(c <= 0), nil
	}

	return Bool(c >= 0), nil
}

func isNumber(v Value) bool {
	switch v.(type) {
	case Int, Float, Bool:
		return true
	}

	return false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

func bitwise(op string, l, r Value) (Value, error) {
	li, lok := l.(Int)
	ri, rok := r.(Int)

	if !lok || !rok {
		return nil, operandError(op, l, r)
	}

	a, b := int64(li), int64(ri)

	switch op {
	case "&":
		return Int(a & b), nil
	case "|":
		return Int(a | b), nil
	case "^":
		return Int(a ^ b), nil
	}

	if b < 0 {
		return nil, Faultf("negative shift count")
	}

	switch op {
	case "<<":
		return Int(a << uint64(b)), nil
	case ">>":
		return Int(a >> uint64(b)), nil
	}

	// >>> treats the left operand as an unsigned 32-bit value.
	return Int(int64((uint64(a) & 0xFFFFFFFF) >> uint64(b))), nil
}

// Unary applies a prefix operator other than ++ and --.
func Unary(op string, v Value) (Value, error) {
	switch op {
	case "!":
		return Bool(!Truthy(v)), nil

	case "-":
		switch v := v.(type) {
		case Int:
			return -v, nil
		case Float:
			return -v, nil
		case Bool:
			n, _ := asInt(v)

			return Int(-n), nil
		}

	case "+":
		switch v := v.(type) {
		case Int, Float:
			return v, nil
		case Bool:
			n, _ := asInt(v)

			return Int(n), nil
		}

	case "~":
		if n, ok := v.(Int); ok {
			return ^n, nil
		}
	}

	f := Faultf("bad operand type for unary %s: '%s'", op, v.Type())
	f.Cause = ErrType

	return nil, f
}
