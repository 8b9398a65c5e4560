package cmd

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shibo/lang/ast"
	"github.com/ardnew/shibo/log"
	"github.com/ardnew/shibo/profile"
)

// Init writes the current flag values to the configuration script.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(fmt.Errorf("no command line in context"))
	}

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || path == "" {
		return ErrWriteConfig.Wrap(fmt.Errorf("configuration path undefined"))
	}

	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	src, err := ast.Format(configProgram(ktx))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", path))

	return nil
}

// configProgram declares one global per flag, named with underscores, so the
// script resolves the same flags when it is loaded.
func configProgram(ktx *kong.Context) *ast.Program {
	var (
		b    ast.Builder
		body []ast.Stmt
	)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || flag.Name == "help" ||
			strings.HasPrefix(flag.Name, profile.Tag) {
			continue
		}

		if v := literal(ktx.FlagValue(flag)); v != nil {
			body = append(body, b.Var(strings.ReplaceAll(flag.Name, "-", "_"), v))
		}
	}

	return b.Program(body...)
}

// literal returns the expression for a flag value, or nil when the value is
// empty.
func literal(val any) ast.Expr {
	var b ast.Builder

	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return b.Bool(v)

	case string:
		if v == "" {
			return nil
		}

		return b.String(v)

	case int:
		return b.Int(int64(v))

	case int64:
		return b.Int(v)

	case float64:
		return b.Float(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		elems := make([]ast.Expr, len(v))
		for i, s := range v {
			elems[i] = b.String(s)
		}

		return b.List(elems...)

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return nil
		}

		return b.String(string(text))

	default:
		return b.String(fmt.Sprint(v))
	}
}
