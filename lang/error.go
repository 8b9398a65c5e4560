package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput      = NewError("failed to read input")
	ErrModuleNotFound = NewError("module not found")
	ErrImportCycle    = NewError("import cycle")
	ErrMaxDepth       = NewError("maximum recursion depth exceeded")
	ErrNotCallable    = NewError("value is not callable")
	ErrArity          = NewError("argument count mismatch")
	ErrType           = NewError("type error")
	ErrSignal         = NewError("control signal outside its boundary")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error. An error that already is
// an [*Error] is returned unchanged.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg && t.err == nil
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LexError reports a character the lexer does not recognize.
type LexError struct {
	Line int
	Char rune
}

func (e *LexError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": unexpected character " +
		strconv.QuoteRune(e.Char)
}

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "lex"),
		slog.Int("line", e.Line),
		slog.String("char", string(e.Char)),
	)
}

// ParseError reports a structural grammar violation.
type ParseError struct {
	Line     int
	Expected string
	Found    string
	// Msg replaces the default "expected X, found Y" wording when set.
	Msg string
	// EOF is set when the parser ran out of tokens. Interactive front ends
	// use it to request another line of input.
	EOF bool
}

func (e *ParseError) Error() string {
	var sb strings.Builder

	if e.Line > 0 {
		sb.WriteString("line " + strconv.Itoa(e.Line) + ": ")
	}

	if e.Msg != "" {
		sb.WriteString(e.Msg)

		return sb.String()
	}

	sb.WriteString("expected " + e.Expected + ", found " + e.Found)

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "parse"),
		slog.Int("line", e.Line),
		slog.String("expected", e.Expected),
		slog.String("found", e.Found),
		slog.String("msg", e.Msg),
	)
}

// Incomplete reports whether err is a parse error caused by input ending
// early, as with an unclosed block.
func Incomplete(err error) bool {
	var pe *ParseError

	return errors.As(err, &pe) && pe.EOF
}

// Fault is a runtime error raised during evaluation. Faults are recoverable
// within the language through try/catch, which binds Msg.
type Fault struct {
	Msg   string
	Line  int
	Cause error
}

// Faultf creates a [Fault] with a formatted message and no position.
func Faultf(format string, args ...any) *Fault {
	return &Fault{Msg: fmt.Sprintf(format, args...)}
}

func (f *Fault) Error() string {
	if f.Line > 0 {
		return "line " + strconv.Itoa(f.Line) + ": " + f.Msg
	}

	return f.Msg
}

// Unwrap returns the underlying cause, if any.
func (f *Fault) Unwrap() error { return f.Cause }

// LogValue implements slog.LogValuer.
func (f *Fault) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", "runtime"),
		slog.String("msg", f.Msg),
	}

	if f.Line > 0 {
		attrs = append(attrs, slog.Int("line", f.Line))
	}

	if f.Cause != nil {
		attrs = append(attrs, slog.Any("cause", f.Cause))
	}

	return slog.GroupValue(attrs...)
}

// asFault converts any error into a [*Fault], filling in line when the fault
// does not yet carry a position.
func asFault(err error, line int) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		if f.Line == 0 && line > 0 {
			f = &Fault{Msg: f.Msg, Line: line, Cause: f.Cause}
		}

		return f
	}

	return &Fault{Msg: err.Error(), Line: line, Cause: err}
}
