package builtin

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/expr-lang/expr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/shibo/lang"
)

// MatchTimeout bounds the running time of a single regular expression
// match made by the re group.
var MatchTimeout = 5 * time.Second

func reGroup() map[string]lang.Value {
	return members(
		// search(pattern, s) returns the capture groups of the first match, or
		// the whole match when the pattern has no groups. It returns null
		// when nothing matches.
		native("search", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			re, s, err := pattern("search", args)
			if err != nil {
				return nil, err
			}

			m, err := re.FindStringMatch(s)
			if err != nil || m == nil {
				return lang.Null{}, err
			}

			return captures(m), nil
		}),
		// match is search anchored at the start of s.
		native("match", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			re, s, err := pattern("match", args)
			if err != nil {
				return nil, err
			}

			m, err := re.FindStringMatch(s)
			if err != nil || m == nil || m.Index != 0 {
				return lang.Null{}, err
			}

			return captures(m), nil
		}),
		// findall returns every non-overlapping match. Each element is the
		// match text, the single group, or a list of groups.
		native("findall", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			re, s, err := pattern("findall", args)
			if err != nil {
				return nil, err
			}

			var out []lang.Value

			m, err := re.FindStringMatch(s)
			for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
				switch g := m.Groups(); len(g) {
				case 1:
					out = append(out, lang.Str(m.String()))
				case 2:
					out = append(out, lang.Str(g[1].String()))
				default:
					out = append(out, captures(m))
				}
			}

			if err != nil {
				return nil, err
			}

			return lang.NewList(out...), nil
		}),
		// replace(pattern, s, repl) substitutes every match. repl may refer
		// to groups as $1 or ${name}.
		native("replace", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("replace", args, 3, 3); err != nil {
				return nil, err
			}

			re, s, err := pattern("replace", args[:2])
			if err != nil {
				return nil, err
			}

			repl, err := str("replace", args, 2)
			if err != nil {
				return nil, err
			}

			out, err := re.Replace(s, repl, -1, -1)
			if err != nil {
				return nil, err
			}

			return lang.Str(out), nil
		}),
	)
}

func pattern(fn string, args []lang.Value) (*regexp2.Regexp, string, error) {
	if err := arity(fn, args, 2, 2); err != nil {
		return nil, "", err
	}

	src, err := str(fn, args, 0)
	if err != nil {
		return nil, "", err
	}

	s, err := str(fn, args, 1)
	if err != nil {
		return nil, "", err
	}

	re, err := regexp2.Compile(src, regexp2.None)
	if err != nil {
		return nil, "", lang.Faultf("invalid pattern %q: %v", src, err)
	}

	re.MatchTimeout = MatchTimeout

	return re, s, nil
}

func captures(m *regexp2.Match) *lang.List {
	g := m.Groups()
	if len(g) == 1 {
		return lang.NewList(lang.Str(m.String()))
	}

	out := make([]lang.Value, 0, len(g)-1)

	for _, e := range g[1:] {
		if len(e.Captures) == 0 {
			out = append(out, lang.Null{})

			continue
		}

		out = append(out, lang.Str(e.String()))
	}

	return lang.NewList(out...)
}

func textGroup() map[string]lang.Value {
	return members(
		strFunc("title", func(s string) (string, error) {
			return cases.Title(language.Und).String(s), nil
		}),
		strFunc("capitalize", func(s string) (string, error) {
			return capitalize(s), nil
		}),
	)
}

// capitalize upper-cases the first character of s and lower-cases the
// rest.
func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}

	return string(unicode.ToUpper(r)) + cases.Lower(language.Und).String(s[n:])
}

func exprGroup() map[string]lang.Value {
	return members(
		// eval(source[, env]) evaluates an expr-lang expression. The entries of
		// the optional env dict are visible as variables.
		native("eval", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("eval", args, 1, 2); err != nil {
				return nil, err
			}

			src, err := str("eval", args, 0)
			if err != nil {
				return nil, err
			}

			d, err := optional("eval", args, 1, lang.NewDict())
			if err != nil {
				return nil, err
			}

			env, _ := lang.ToNative(d).(map[string]any)

			program, err := expr.Compile(src, expr.Env(env), expr.AllowUndefinedVariables())
			if err != nil {
				return nil, lang.Faultf("expr: %v", err)
			}

			out, err := expr.Run(program, env)
			if err != nil {
				return nil, lang.Faultf("expr: %v", err)
			}

			return lang.FromNative(out)
		}),
	)
}
