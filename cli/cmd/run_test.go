package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/shibo/lang"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()

	lib := writeScript(t, dir, "lib.shibo", `func greet(who) { return "hello " + who }`)
	entry := writeScript(t, dir, "main.shibo", `print(greet("world"))`)
	bad := writeScript(t, dir, "bad.shibo", `print(1 / 0)`)
	broken := writeScript(t, dir, "broken.shibo", `func (`)

	tests := []struct {
		name    string
		scripts []string
		stdin   string
		want    string
		wantErr bool
	}{
		{"shared globals", []string{lib, entry}, "", "hello world\n", false},
		{"stdin", nil, `print(len([1, 2, 3]))`, "3\n", false},
		{"stdin after files", []string{"-", lib}, `print(greet("pipe"))`, "hello pipe\n", false},
		{"fault", []string{bad}, "", "", true},
		{"syntax error", []string{broken}, "", "", true},
		{"missing file", []string{dir + "/none.shibo"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, tt.stdin)

			err := (&Run{Scripts: tt.scripts}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_ScriptError(t *testing.T) {
	path := writeScript(t, t.TempDir(), "fault.shibo", `var x = [1][3]`)
	ctx, _ := testContext(t, "")

	err := (&Run{Scripts: []string{path}}).Run(ctx)
	if !errors.Is(err, ErrScript) {
		t.Fatalf("err = %v, want %v", err, ErrScript)
	}

	var f *lang.Fault
	if !errors.As(err, &f) {
		t.Errorf("err = %v, want wrapped *lang.Fault", err)
	}

	var ce *Error
	if !errors.As(err, &ce) || !strings.Contains(ce.LogValue().String(), "fault.shibo") {
		t.Errorf("err = %v, want script name in attributes", err)
	}
}

func TestRun_Options(t *testing.T) {
	ctx, out := testContext(t, `try { missing } catch (e) { print(e) }`)
	ctx = WithOptions(ctx, lang.WithStrictNames(true))

	if err := (&Run{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "name 'missing' is not defined\n" {
		t.Errorf("output = %q", out.String())
	}
}
