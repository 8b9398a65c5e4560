package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}

	return val
}

func TestResolve_Globals(t *testing.T) {
	script := `
var log_level = "debug"
var log_pretty = false
var lang_max_depth = 50 * 2
var ratio = 0.5
var lang_path = ["/opt/lib", "lib"]
func helper() { return "x" }
class Ignored {}
`

	r, err := resolve(t.Context())(strings.NewReader(script))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log_level", "debug"},
		{"log-pretty", false},
		{"lang-max-depth", "100"},
		{"ratio", "0.5"},
		{"helper", nil},
		{"Ignored", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := resolveFlag(t, r, tt.flag); got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	path, ok := resolveFlag(t, r, "lang-path").([]any)
	if !ok || !slices.Equal(path, []any{"/opt/lib", "lib"}) {
		t.Errorf("lang-path = %#v", path)
	}
}

func TestResolve_BadScript(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"syntax error", "var = "},
		{"runtime fault", `var log_level = "debug"; var x = 1 / 0`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolve(t.Context())(strings.NewReader(tt.script))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}

			if got := resolveFlag(t, r, "log-level"); got != nil {
				t.Errorf("log-level = %#v, want nil", got)
			}
		})
	}
}

func TestResolve_ReadError(t *testing.T) {
	r, err := resolve(t.Context())(&errorReader{err: bytes.ErrTooLarge})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if err := r.Validate(nil); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestResolve_Parser(t *testing.T) {
	var cli struct {
		Lang langConfig `embed:"" prefix:"lang-"`
	}

	script := "var lang_strict_names = true\nvar lang_max_depth = 64\n"

	r, err := resolve(t.Context())(strings.NewReader(script))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r), cli.Lang.vars())
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse([]string{"--lang-max-depth=8"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !cli.Lang.StrictNames {
		t.Error("StrictNames not resolved from script")
	}

	if cli.Lang.MaxDepth != 8 {
		t.Errorf("MaxDepth = %d, want flag value 8", cli.Lang.MaxDepth)
	}
}

type errorReader struct{ err error }

func (r *errorReader) Read([]byte) (int, error) { return 0, r.err }
