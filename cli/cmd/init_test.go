package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/ast"
)

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create new config"},
		{name: "overwrite with force", force: true, exists: true},
		{name: "fail without force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "config.shibo")

			if tt.exists {
				if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
					t.Fatal(err)
				}

				if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Name    string   `default:"shibo"`
				Depth   int      `default:"7"`
				Verbose bool     `default:"true"`
				Paths   []string `default:"a,b"`
				Empty   string
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse(nil)
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(context.Background(), ktx))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				return
			}

			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			in := lang.New()
			if _, err := in.Run(t.Context(), string(src)); err != nil {
				t.Fatalf("generated config does not run: %v\n%s", err, src)
			}

			globals := in.Globals()

			for name, want := range map[string]string{
				"name":    `"shibo"`,
				"depth":   "7",
				"verbose": "true",
				"paths":   `["a", "b"]`,
			} {
				v, ok := globals.Get(name)
				if !ok {
					t.Errorf("config missing %s:\n%s", name, src)

					continue
				}

				if got := lang.Repr(v); got != want {
					t.Errorf("%s = %s, want %s", name, got, want)
				}
			}

			if _, ok := globals.Get("empty"); ok {
				t.Error("empty flag was written")
			}

			if _, ok := globals.Get("help"); ok {
				t.Error("help flag was written")
			}
		})
	}
}

func TestInitRun_NoContext(t *testing.T) {
	err := (&Init{}).Run(context.Background())
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("err = %v, want %v", err, ErrWriteConfig)
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string // source text, "" for no literal
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"empty list", []string{}, ""},
		{"string", "x", `"x"`},
		{"bool", false, "false"},
		{"int", 3, "3"},
		{"float", 1.5, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := literal(tt.val)
			if tt.want == "" {
				if e != nil {
					t.Errorf("literal(%#v) = %#v, want nil", tt.val, e)
				}

				return
			}

			if e == nil {
				t.Fatalf("literal(%#v) = nil", tt.val)
			}

			var b ast.Builder

			src, err := ast.Format(b.Program(b.Var("v", e)))
			if err != nil {
				t.Fatal(err)
			}

			if !strings.Contains(src, "= "+tt.want) {
				t.Errorf("literal(%#v) formats as %q, want %s", tt.val, src, tt.want)
			}
		})
	}
}
