package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/ast"
	"github.com/ardnew/shibo/log"
)

// Fmt parses a script and prints it in the chosen form.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Print canonical shibo source (default)."`
	JSON   JSON   `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Print the syntax tree as YAML."`
	Tree   Tree   `cmd:""                    help:"Print the syntax tree as an outline."`
}

// parseSource parses the script at path through the parse cache.
func parseSource(ctx context.Context, path, format string) (*ast.Program, error) {
	src, err := readSource(ctx, path)
	if err != nil {
		return nil, err
	}

	prog, err := lang.ParseReader(ctx, strings.NewReader(src), lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("format", format))
	}

	return prog, nil
}

// Native prints canonical source.
type Native struct {
	Indent int    `default:"2" help:"Indent width." short:"i"`
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	prog, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return ast.Fprint(stdioFrom(ctx).out, prog, f.Indent)
}

// JSON prints the syntax tree as JSON.
type JSON struct {
	Indent int    `default:"2" help:"Indent width." short:"i"`
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	prog, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdioFrom(ctx).out)
	enc.SetIndent("", strings.Repeat(" ", max(j.Indent, 0)))

	if err := enc.Encode(ast.ToMap(prog)); err != nil {
		return ErrEncode.With(slog.String("format", "json")).Wrap(err)
	}

	return nil
}

// YAML prints the syntax tree as YAML.
type YAML struct {
	Indent int    `default:"2" help:"Indent width." short:"i"`
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	prog, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	out, err := yaml.MarshalWithOptions(ast.ToMap(prog), yaml.Indent(max(y.Indent, 1)))
	if err != nil {
		return ErrEncode.With(slog.String("format", "yaml")).Wrap(err)
	}

	_, err = stdioFrom(ctx).out.Write(out)

	return err
}

// Tree prints an indented outline of the syntax tree.
type Tree struct {
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt tree command.
func (t *Tree) Run(ctx context.Context) error {
	prog, err := parseSource(ctx, t.Source, "tree")
	if err != nil {
		return err
	}

	return ast.Dump(stdioFrom(ctx).out, prog)
}
