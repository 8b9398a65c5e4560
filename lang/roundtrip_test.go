package lang

import (
	"testing"

	"github.com/ardnew/shibo/lang/ast"
)

var roundTripSources = []string{
	"var x = 1 + 2 * 3 - (4 - 5)",
	"print(a - -b); print(- -a); print(+ +a); print(-(-a)); print(!(!a))",
	"x = (a ? b : c) ? d : e",
	"x = a ? b ? c : d : e",
	"y = (a || b) && c",
	"z = a - (b - c) + (d + e)",
	"w = (a + b)(c).d[e][f:g]",
	"v = (1).x; u = (-1)[0]",
	"i++; --j; k[0]++; ++o.p",
	"var s = set(1, 2); var d = {\"k\": [1, 2.5, .5, 3.], \"n\": null}",
	"if (a) {} else if (b) { c } else { d }",
	"while (true) { break }\ndo { continue } while (false)",
	"for (var i = 0; i < n; i += 1) { print(i) }",
	"for (;;) {}\nfor (x in xs) { print(x) }",
	"func f(a, b) { return a + b }\nfunc g() { return }",
	"class A(B) implements C, D { var x = []; func m(self) { return self.x } }",
	"interface I { func m(a, b); func n() }\ninterface E {}",
	"try { risky() } catch (err) { print(err) }",
	"import m\nfrom m import a, b\nfrom m import *",
	"x = a instanceof B == (c instanceof D)",
	"x = 1 << 2 >> 3 >>> 4 & 5 | 6 ^ 7",
	"x = a // b % c / d",
	"x = a < b == c > d",
	"x -= 1; x *= 2; x %= 3; x |= 4; x &= 5; x ^= 6; x <<= 7; x >>= 8; x >>>= 9",
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, src := range roundTripSources {
		t.Run(src, func(t *testing.T) {
			first, err := ParseString(src)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", src, err)
			}

			printed, err := ast.Format(first)
			if err != nil {
				t.Fatalf("Format error: %v", err)
			}

			second, err := ParseString(printed)
			if err != nil {
				t.Fatalf("re-parse of\n%s\nerror: %v", printed, err)
			}

			if !ast.Equal(first, second) {
				t.Errorf("round trip changed the tree:\n%s", printed)
			}

			again, err := ast.Format(second)
			if err != nil {
				t.Fatalf("Format error: %v", err)
			}

			if again != printed {
				t.Errorf("printing is not stable:\n%s\nvs\n%s", printed, again)
			}
		})
	}
}

func TestFormat_Unprintable(t *testing.T) {
	var b ast.Builder

	if _, err := ast.Format(b.Program(b.Var("s", b.String(`say "hi"`)))); err == nil {
		t.Error("Format of a string holding a quote succeeded, want error")
	}
}

func TestEqual_IgnoresPosition(t *testing.T) {
	a, err := ParseString("var x = 1")
	if err != nil {
		t.Fatal(err)
	}

	b, err := ParseString("\n\n\nvar x = 1")
	if err != nil {
		t.Fatal(err)
	}

	if !ast.Equal(a, b) {
		t.Error("trees differing only in line numbers are not equal")
	}

	c, err := ParseString("var x = 2")
	if err != nil {
		t.Fatal(err)
	}

	if ast.Equal(a, c) {
		t.Error("different literals compare equal")
	}
}

func TestBuilder_ParsesBack(t *testing.T) {
	var b ast.Builder

	prog := b.Program(
		b.Var("log_level", b.String("debug")),
		b.Var("lang_max_depth", b.Int(500)),
		b.Var("ratio", b.Float(2)),
		b.Var("paths", b.List(b.String("a"), b.String("b"))),
		b.Var("opts", b.Dict(b.String("k"), b.Bool(true))),
		b.Var("sum", b.Binary("+", b.Ident("x"), b.Call(b.Ident("f"), b.Null()))),
	)

	src, err := ast.Format(prog)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	parsed, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q) error: %v", src, err)
	}

	if !ast.Equal(prog, parsed) {
		t.Errorf("builder tree does not survive a round trip:\n%s", src)
	}
}
