// Package repl is the interactive front end of the interpreter: a
// bubbletea terminal UI with completion and history, and a plain line mode
// for pipes and dumb terminals.
package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/log"
)

// Config configures [Run].
type Config struct {
	// Options configure the session's interpreter.
	Options []lang.Option
	Logger  log.Logger
	// HistoryFile persists input across sessions. Empty keeps history in
	// memory.
	HistoryFile string
	// Line selects line mode even on a terminal.
	Line bool
}

// IsTerminal reports whether r is a terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run reads and evaluates input until it ends or the user quits. It uses
// the terminal UI when in is a terminal and line mode otherwise.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	history := NewHistory(cfg.HistoryFile)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "load history",
			slog.String("file", cfg.HistoryFile),
			slog.Any("error", err),
		)
	}

	if cfg.Line || !IsTerminal(in) {
		s := NewSession(cfg.Logger, cfg.Options...)

		return runLines(ctx, s, in, out, history, IsTerminal(in))
	}

	// Script output is buffered and printed above the input line so it does
	// not tear the UI. The UI owns the terminal, so input() sees EOF.
	var buf bytes.Buffer

	opts := slices.Concat(cfg.Options, []lang.Option{
		lang.WithStdout(&buf),
		lang.WithStdin(strings.NewReader("")),
	})
	s := NewSession(cfg.Logger, opts...)

	p := tea.NewProgram(
		newModel(ctx, s, &buf, history, cfg.Logger),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}
