package repl

import (
	"strings"

	"github.com/ardnew/shibo/lang"
)

// call is the function call enclosing the cursor.
type call struct {
	name string // dotted callee, e.g. "os.join"
	arg  int    // 0-based index of the argument under the cursor
	ok   bool
}

// enclosingCall finds the innermost unclosed '(' before cursor and the
// callee named before it. Parentheses and commas inside string literals
// are ignored.
func enclosingCall(input string, cursor int) call {
	cursor = min(max(cursor, 0), len(input))

	var (
		opens []int
		args  []int
		quote bool
	)

	for i := 0; i < cursor; i++ {
		switch c := input[i]; {
		case c == '"':
			quote = !quote
		case quote:
		case c == '(' || c == '[' || c == '{':
			opens = append(opens, i)
			args = append(args, 0)
		case (c == ')' || c == ']' || c == '}') && len(opens) > 0:
			opens = opens[:len(opens)-1]
			args = args[:len(args)-1]
		case c == ',' && len(args) > 0:
			args[len(args)-1]++
		}
	}

	if len(opens) == 0 || input[opens[len(opens)-1]] != '(' {
		return call{}
	}

	open := opens[len(opens)-1]

	start := open
	for start > 0 {
		c := input[start-1]
		if c != '.' && c != '_' && !isAlnum(c) {
			break
		}

		start--
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return call{}
	}

	return call{name: name, arg: args[len(args)-1], ok: true}
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// params returns the parameter names a call to v takes, excluding the bound
// receiver. Natives report false since their parameters are not declared.
func params(v lang.Value) ([]string, bool) {
	switch v := v.(type) {
	case *lang.Function:
		p := v.Def.Params
		if v.Self != nil && len(p) > 0 {
			p = p[1:]
		}

		return p, true

	case *lang.Class:
		def, ok := v.Method("init")
		if !ok {
			return nil, true
		}

		if len(def.Params) > 0 {
			return def.Params[1:], true
		}

		return nil, true
	}

	return nil, false
}

// renderSignature renders "name(a, b)" with parameter arg highlighted.
// Natives render as "name(...)".
func renderSignature(in *lang.Interpreter, c call) string {
	v, ok := resolve(in, c.name)
	if !ok {
		return ""
	}

	names, ok := params(v)
	if !ok {
		if _, native := v.(*lang.Native); !native {
			return ""
		}

		return signatureNameStyle.Render(c.name) + signatureStyle.Render("(...)")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(c.name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range names {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == c.arg {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
