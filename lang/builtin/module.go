package builtin

import (
	"math"
	"strings"

	"github.com/ardnew/shibo/lang"
)

// Modules resolves the modules that ship with the interpreter. It is meant
// to be installed with [lang.WithModuleHook], so a source file of the same
// name takes precedence.
func Modules(name string) (lang.Registry, bool) {
	mod, ok := modules[name]
	if !ok {
		return nil, false
	}

	return mod(), true
}

// ModuleNames lists the names [Modules] resolves.
func ModuleNames() []string {
	return []string{"math", "string", "utils"}
}

//nolint:gochecknoglobals
var modules = map[string]func() lang.Registry{
	"math":   mathModule,
	"utils":  utilsModule,
	"string": stringModule,
}

func mathModule() lang.Registry {
	return lang.Registry{
		"PI": lang.Float(3.14159),
		"sqrt": native("sqrt", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("sqrt", args, 1, 1); err != nil {
				return nil, err
			}

			x, err := number("sqrt", args, 0)
			if err != nil {
				return nil, err
			}

			return lang.Float(math.Pow(x, 0.5)), nil
		}),
		// pow keeps integer results exact for a non-negative integer exponent.
		"pow": native("pow", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("pow", args, 2, 2); err != nil {
				return nil, err
			}

			if b, ok := args[0].(lang.Int); ok {
				if e, ok := args[1].(lang.Int); ok && e >= 0 {
					return ipow(b, e), nil
				}
			}

			x, err := number("pow", args, 0)
			if err != nil {
				return nil, err
			}

			y, err := number("pow", args, 1)
			if err != nil {
				return nil, err
			}

			return lang.Float(math.Pow(x, y)), nil
		}),
	}
}

func ipow(b, e lang.Int) lang.Int {
	r := lang.Int(1)

	for e > 0 {
		if e&1 == 1 {
			r *= b
		}

		b *= b
		e >>= 1
	}

	return r
}

func utilsModule() lang.Registry {
	return lang.Registry{
		"is_even": parity("is_even", 0),
		"is_odd":  parity("is_odd", 1),
		// clamp(value, lo, hi) limits value to the closed interval [lo, hi].
		"clamp": native("clamp", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("clamp", args, 3, 3); err != nil {
				return nil, err
			}

			v, lo, hi := args[0], args[1], args[2]

			if c, err := order(hi, v); err != nil {
				return nil, err
			} else if c < 0 {
				v = hi
			}

			if c, err := order(lo, v); err != nil {
				return nil, err
			} else if c > 0 {
				v = lo
			}

			return v, nil
		}),
	}
}

// parity reports whether x % 2 equals want, using the language's floored
// modulo.
func parity(name string, want lang.Int) *lang.Native {
	return native(name, func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}

		r, err := lang.Binary("%", args[0], lang.Int(2))
		if err != nil {
			return nil, err
		}

		return lang.Bool(lang.Equal(r, want)), nil
	})
}

func stringModule() lang.Registry {
	return lang.Registry{
		"capitalize": strFunc("capitalize", func(s string) (string, error) {
			return capitalize(s), nil
		}),
		"reverse": strFunc("reverse", func(s string) (string, error) {
			return reverseString(s), nil
		}),
		"is_palindrome": native("is_palindrome", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("is_palindrome", args, 1, 1); err != nil {
				return nil, err
			}

			s, err := str("is_palindrome", args, 0)
			if err != nil {
				return nil, err
			}

			s = strings.ToLower(s)

			return lang.Bool(s == reverseString(s)), nil
		}),
	}
}
