package repl

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ardnew/shibo/log"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	return NewSession(log.Make(io.Discard))
}

func TestSession_Feed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Reply
	}{
		{"blank", []string{"   "}, Reply{}},
		{"expression", []string{"1 + 2"}, Reply{Output: "3"}},
		{"declaration is silent", []string{"var x = 4"}, Reply{}},
		{"null result is silent", []string{"null"}, Reply{}},
		{"globals persist", []string{"var x = 4", "x * x"}, Reply{Output: "16"}},
		{"open block", []string{"func f() {"}, Reply{More: true}},
		{
			name:  "closed block",
			lines: []string{"func f(a) {", "  return a * 2", "}", "f(21)"},
			want:  Reply{Output: "42"},
		},
		{"closed if waits for else", []string{"var x = 0", "if (x) { x = 1 }"}, Reply{More: true}},
		{
			name:  "else on the next line",
			lines: []string{"var x = 0", "if (x) { x = 1 }", "else { x = 2 }", "x"},
			want:  Reply{Output: "2"},
		},
		{
			name:  "else if chain across lines",
			lines: []string{"var x = 3", "if (x == 1) { x = 10 }", "else if (x == 2) { x = 20 }", "else { x = 30 }", "x"},
			want:  Reply{Output: "30"},
		},
		{
			name:  "statement after closed if",
			lines: []string{"var x = 0", "if (true) { x = 5 }", "x + 1"},
			want:  Reply{Output: "6"},
		},
		{
			name:  "blank line ends closed if",
			lines: []string{"var x = 0", "if (true) { x = 5 }", ""},
			want:  Reply{},
		},
		{
			name:  "identifier starting with else",
			lines: []string{"var elsewhere = 3", "if (false) { elsewhere = 0 }", "elsewhere"},
			want:  Reply{Output: "3"},
		},
		{"if with else is not held", []string{"var x = 0", "if (x) { x = 1 } else { x = 2 }"}, Reply{}},
		{"quit", []string{":quit"}, Reply{Quit: true}},
		{"quit alias", []string{":q"}, Reply{Quit: true}},
		{"clear", []string{":clear"}, Reply{Clear: true}},
		{"edit", []string{":e"}, Reply{Edit: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)

			var got Reply
			for _, line := range tt.lines {
				got = s.Feed(t.Context(), line)
			}

			if got != tt.want {
				t.Errorf("Feed(%q) = %+v, want %+v", tt.lines, got, tt.want)
			}
		})
	}
}

func TestSession_Errors(t *testing.T) {
	s := newTestSession(t)

	if r := s.Feed(t.Context(), "1 / 0"); r.Err == nil {
		t.Error("division by zero: want error")
	}

	if r := s.Feed(t.Context(), "var = ;"); r.Err == nil || r.More {
		t.Errorf("syntax error: got %+v", r)
	}

	r := s.Feed(t.Context(), ":bogus")
	if !errors.Is(r.Err, ErrUnknownCommand) {
		t.Errorf("unknown command: err = %v, want %v", r.Err, ErrUnknownCommand)
	}

	// An error leaves the session usable.
	if r := s.Feed(t.Context(), "2 + 2"); r.Output != "4" {
		t.Errorf("after errors: got %+v", r)
	}
}

func TestSession_CommandInsideBlock(t *testing.T) {
	s := newTestSession(t)

	s.Feed(t.Context(), "var d = {")

	if !s.Pending() {
		t.Fatal("Pending() = false after open brace")
	}

	// Inside a block ':' is source, not a command.
	if r := s.Feed(t.Context(), `"k": 1`); !r.More {
		t.Fatalf("got %+v, want More", r)
	}

	if r := s.Feed(t.Context(), "}"); r.Err != nil || r.More {
		t.Fatalf("closing block: got %+v", r)
	}

	if r := s.Feed(t.Context(), `d["k"]`); r.Output != "1" {
		t.Errorf(`d["k"] = %+v, want 1`, r)
	}
}

func TestSession_ClosedIfThenCommand(t *testing.T) {
	s := newTestSession(t)

	s.Feed(t.Context(), "var x = 0")
	s.Feed(t.Context(), "if (true) { x = 5 }")

	if !s.Pending() {
		t.Fatal("Pending() = false after closed if")
	}

	if r := s.Feed(t.Context(), ":q"); !r.Quit {
		t.Fatalf("command after closed if: got %+v", r)
	}

	if r := s.Feed(t.Context(), "x"); r.Output != "5" {
		t.Errorf("x = %+v, want 5", r)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession(t)

	s.Feed(t.Context(), "while (true) {")
	s.Reset()

	if s.Pending() {
		t.Fatal("Pending() = true after Reset")
	}

	if r := s.Feed(t.Context(), ":q"); !r.Quit {
		t.Errorf("command after Reset: got %+v", r)
	}
}

func TestSession_Globals(t *testing.T) {
	s := newTestSession(t)

	if got := s.Feed(t.Context(), ":globals").Output; got != "  (no globals)" {
		t.Errorf("empty :globals = %q", got)
	}

	s.Feed(t.Context(), "var n = 7")
	s.Feed(t.Context(), `var long = "`+strings.Repeat("a", 100)+`"`)

	got := s.Feed(t.Context(), ":g").Output

	if !strings.Contains(got, "n: int = 7") {
		t.Errorf(":globals missing n:\n%s", got)
	}

	if !strings.Contains(got, "long: str = ") || !strings.Contains(got, "...") {
		t.Errorf(":globals did not truncate long:\n%s", got)
	}
}

func TestSession_Eval(t *testing.T) {
	s := newTestSession(t)

	s.Feed(t.Context(), "func f() {")

	r := s.Eval(t.Context(), "var a = 1\nvar b = 2\na + b")
	if r.Output != "3" {
		t.Errorf("Eval = %+v, want 3", r)
	}

	if s.Pending() {
		t.Error("Eval left pending input")
	}
}

func TestHelp(t *testing.T) {
	got := help()

	for _, c := range commands {
		if !strings.Contains(got, c.name) {
			t.Errorf("help() missing %s", c.name)
		}
	}
}
