package lang

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeModules(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, src := range files {
		path := filepath.Join(dir, name+Ext)
		if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	return dir
}

func TestModule_Import(t *testing.T) {
	dir := writeModules(t, map[string]string{
		"helpers": `print("loading helpers")
var NAME = "helpers"
var base = 10
func double(x) { return x * 2 }
func add(x) { return base + x }`,
	})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "import merges everything",
			src:  "import helpers\nprint(double(4)); print(NAME)",
			want: "loading helpers\n8\nhelpers\n",
		},
		{
			name: "from import names",
			src:  "from helpers import double, NAME\nprint(double(NAME))",
			want: "loading helpers\nhelpershelpers\n",
		},
		{
			name: "from import star",
			src:  "from helpers import *\nprint(base)",
			want: "loading helpers\n10\n",
		},
		{
			name: "module evaluated once",
			src:  "import helpers\nimport helpers\nfrom helpers import add",
			want: "loading helpers\n",
		},
		{
			name: "functions keep module globals",
			src:  "from helpers import add\nvar base = 1\nprint(add(1))",
			want: "loading helpers\n11\n",
		},
		{
			name: "import inside function binds locally",
			src:  "func f() { import helpers; return double(1) }\nprint(f()); print(double)",
			want: "loading helpers\n2\nnull\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src, WithModulePath(dir))
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}

			if got != tt.want {
				t.Errorf("output =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestModule_Faults(t *testing.T) {
	dir := writeModules(t, map[string]string{
		"a":      "import b",
		"b":      "import c",
		"c":      "import a",
		"broken": "var x = 1 / 0",
		"syntax": "var = ",
		"lib":    "var one = 1",
	})

	tests := []struct {
		name   string
		src    string
		msg    string
		target error
	}{
		{"import cycle", "import a", "import cycle: a -> b -> c -> a", ErrImportCycle},
		{"not found", "import nope", "Module 'nope' not found", ErrModuleNotFound},
		{"missing name", "from lib import two", "'two' not found in module 'lib'", nil},
		{"fault in module", "import broken", "division by zero", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src, WithModulePath(dir))

			var f *Fault
			if !errors.As(err, &f) {
				t.Fatalf("error = %v, want *Fault", err)
			}

			if f.Msg != tt.msg {
				t.Errorf("Msg = %q, want %q", f.Msg, tt.msg)
			}

			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error %v is not %v", err, tt.target)
			}
		})
	}

	t.Run("parse error in module", func(t *testing.T) {
		_, err := run(t, "import syntax", WithModulePath(dir))

		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("error = %v, want wrapped *ParseError", err)
		}
	})
}

func TestModule_FailureNotCached(t *testing.T) {
	dir := writeModules(t, map[string]string{"flaky": "print(\"run\"); var x = 1 / 0"})

	out, err := run(t, `
try { import flaky } catch (e) { print(e) }
try { import flaky } catch (e) { print(e) }`, WithModulePath(dir))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	want := "run\ndivision by zero\nrun\ndivision by zero\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestModule_Hook(t *testing.T) {
	hook := func(name string) (Registry, bool) {
		if name != "consts" {
			return nil, false
		}

		return Registry{"PI": Float(3.5), "E": Float(2.5)}, true
	}

	out, err := run(t, "from consts import PI\nimport consts\nprint(PI + E)", WithModuleHook(hook))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if out != "6.0\n" {
		t.Errorf("output = %q, want %q", out, "6.0\n")
	}
}

func TestModule_FilePrecedesHook(t *testing.T) {
	dir := writeModules(t, map[string]string{"consts": "var PI = 3"})

	hook := func(string) (Registry, bool) {
		return Registry{"PI": Float(3.14)}, true
	}

	out, err := run(t, "import consts\nprint(PI)", WithModulePath(dir), WithModuleHook(hook))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if out != "3\n" {
		t.Errorf("output = %q, want %q", out, "3\n")
	}
}

func TestInterpreter_SearchPath(t *testing.T) {
	t.Setenv(PathEnv, "")

	in := New(WithModulePath("/opt/shibo"))

	got := in.SearchPath()
	want := []string{".", "modules", "lib", "/opt/shibo"}

	if len(got) != len(want) {
		t.Fatalf("SearchPath = %q, want %q", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SearchPath[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
