package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/ast"
	"github.com/ardnew/shibo/log"
)

// Session evaluates REPL input against one interpreter. Lines are buffered
// while the parser reports that the input ended early, so blocks may span
// several lines. Lines starting with ':' outside a block are commands.
type Session struct {
	in      *lang.Interpreter
	logger  log.Logger
	pending []string
	held    bool // pending is a complete if that may take an else
}

// Reply is the outcome of one line of input.
type Reply struct {
	// Output is the representation of a non-null result or a command's
	// text.
	Output string
	Err    error
	// More reports that the input so far is incomplete.
	More  bool
	Quit  bool
	Clear bool
	// Edit asks the front end to open an editor and evaluate its result.
	Edit bool
}

// commands lists the REPL commands in help order.
//
//nolint:gochecknoglobals
var commands = []struct{ name, help string }{
	{":help", "Show this help"},
	{":globals", "List global names and values"},
	{":edit", "Compose input in $EDITOR"},
	{":clear", "Clear the screen"},
	{":quit", "Exit"},
}

// NewSession returns a session over a new interpreter built with opts.
func NewSession(logger log.Logger, opts ...lang.Option) *Session {
	return &Session{in: lang.New(opts...), logger: logger}
}

// Interpreter returns the session's interpreter.
func (s *Session) Interpreter() *lang.Interpreter { return s.in }

// Pending reports whether a block is awaiting more lines.
func (s *Session) Pending() bool { return len(s.pending) > 0 }

// Reset discards buffered lines.
func (s *Session) Reset() {
	s.pending = nil
	s.held = false
}

// Feed consumes one line.
//
// A complete if statement without an else branch is held until the next
// line: an else clause continues it, a blank line evaluates it, and any
// other line evaluates it and is then fed on its own.
func (s *Session) Feed(ctx context.Context, line string) Reply {
	if s.held {
		s.held = false

		if !startsElse(line) {
			return s.flush(ctx, line)
		}

		last := len(s.pending) - 1
		s.pending[last] += " " + strings.TrimSpace(line)

		return s.parse(ctx)
	}

	if !s.Pending() {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			return Reply{}
		}

		if strings.HasPrefix(trimmed, ":") {
			return s.command(trimmed)
		}
	}

	s.pending = append(s.pending, line)

	return s.parse(ctx)
}

func (s *Session) parse(ctx context.Context) Reply {
	src := strings.Join(s.pending, "\n")

	prog, err := lang.ParseString(src)
	if lang.Incomplete(err) {
		return Reply{More: true}
	}

	if err == nil && openIf(prog, src) {
		s.held = true

		return Reply{More: true}
	}

	s.pending = nil

	if err != nil {
		return Reply{Err: err}
	}

	return s.eval(ctx, prog)
}

// flush evaluates a held if statement and then feeds line.
func (s *Session) flush(ctx context.Context, line string) Reply {
	r := s.Eval(ctx, strings.Join(s.pending, "\n"))

	if strings.TrimSpace(line) == "" {
		return r
	}

	next := s.Feed(ctx, line)
	next.Err = errors.Join(r.Err, next.Err)

	switch {
	case r.Output == "":
	case next.Output == "":
		next.Output = r.Output
	default:
		next.Output = r.Output + "\n" + next.Output
	}

	return next
}

// openIf reports whether the last statement of prog is an if chain whose
// final branch has no else and whose block closes the source.
func openIf(prog *ast.Program, src string) bool {
	if len(prog.Body) == 0 || !strings.HasSuffix(strings.TrimSpace(src), "}") {
		return false
	}

	stmt, ok := prog.Body[len(prog.Body)-1].(*ast.If)

	for ok {
		switch {
		case stmt.Else == nil:
			return true
		case len(stmt.Else) == 1:
			stmt, ok = stmt.Else[0].(*ast.If)
		default:
			return false
		}
	}

	return false
}

// startsElse reports whether line begins with the else keyword.
func startsElse(line string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "else")
	if !ok {
		return false
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return rest == "" || !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Eval evaluates a complete source text, such as the result of an edit.
func (s *Session) Eval(ctx context.Context, src string) Reply {
	s.pending = nil
	s.held = false

	prog, err := lang.ParseString(src)
	if err != nil {
		return Reply{Err: err}
	}

	return s.eval(ctx, prog)
}

func (s *Session) eval(ctx context.Context, prog *ast.Program) Reply {
	v, err := s.in.Eval(ctx, prog, nil)
	if err != nil {
		s.logger.DebugContext(ctx, "repl fault", slog.Any("error", err))

		return Reply{Err: err}
	}

	if _, null := v.(lang.Null); null || v == nil {
		return Reply{}
	}

	return Reply{Output: lang.Repr(v)}
}

func (s *Session) command(input string) Reply {
	name, _, _ := strings.Cut(input, " ")

	switch name {
	case ":h", ":help":
		return Reply{Output: help()}

	case ":g", ":globals":
		return Reply{Output: s.globals()}

	case ":e", ":edit":
		return Reply{Edit: true}

	case ":c", ":clear":
		return Reply{Clear: true}

	case ":q", ":quit", ":exit":
		return Reply{Quit: true}
	}

	return Reply{Err: fmt.Errorf("%w %s (try :help)", ErrUnknownCommand, name)}
}

func help() string {
	var b strings.Builder

	b.WriteString("Commands:\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-9s %s\n", c.name, c.help)
	}

	b.WriteString("\nBlocks continue until their braces close. " +
		"Tab completes names; Ctrl+C discards the current input.")

	return b.String()
}

// previewWidth bounds the value shown by :globals.
const previewWidth = 48

func (s *Session) globals() string {
	var b strings.Builder

	for name, v := range s.in.Globals().All() {
		preview := lang.Repr(v)
		if r := []rune(preview); len(r) > previewWidth {
			preview = string(r[:previewWidth-3]) + "..."
		}

		fmt.Fprintf(&b, "  %s: %s = %s\n", name, v.Type(), preview)
	}

	if b.Len() == 0 {
		return "  (no globals)"
	}

	return strings.TrimSuffix(b.String(), "\n")
}
