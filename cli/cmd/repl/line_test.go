package repl

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/builtin"
	"github.com/ardnew/shibo/log"
)

func TestRunLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"results", "1 + 1\nvar x = 3\nx\n", "2\n3\n"},
		{"block", "func f() {\n  return 9\n}\nf()\n", "9\n"},
		{"print output", "print(\"hi\")\n", "hi\n"},
		{"error continues", "1 / 0\n5\n", "error: "},
		{"quit stops", "1\n:quit\n2\n", "1\n"},
		{"unknown command", ":nope\n", "error: unknown command :nope"},
		{"else on the next line", "var x = 0\nif (x) { x = 1 }\nelse { x = 2 }\nx\n", "2\n"},
		{"if at end of input", "if (true) { print(\"yes\") }\n", "yes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			s := NewSession(log.Make(io.Discard), lang.WithStdout(&out))

			err := runLines(t.Context(), s, strings.NewReader(tt.input), &out, NewHistory(""), false)
			if err != nil {
				t.Fatalf("runLines: %v", err)
			}

			if !strings.HasPrefix(out.String(), tt.want) {
				t.Errorf("output = %q, want prefix %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunLines_Prompts(t *testing.T) {
	var out bytes.Buffer

	s := NewSession(log.Make(io.Discard), lang.WithStdout(&out))

	err := runLines(t.Context(), s, strings.NewReader("func f() {\n}\n"), &out, NewHistory(""), true)
	if err != nil {
		t.Fatalf("runLines: %v", err)
	}

	want := evalPrompt + morePrompt + evalPrompt + "\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRun_LineMode(t *testing.T) {
	var out bytes.Buffer

	cfg := Config{
		Options: []lang.Option{lang.WithStdout(&out), lang.WithNatives(builtin.Default())},
		Logger:  log.Make(io.Discard),
	}

	if err := Run(t.Context(), strings.NewReader("var a = [1, 2]\nlen(a)\n"), &out, cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.String() != "2\n" {
		t.Errorf("output = %q, want %q", out.String(), "2\n")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(strings.NewReader("")) {
		t.Error("IsTerminal(strings.Reader) = true")
	}
}
