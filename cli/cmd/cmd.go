package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/builtin"
	"github.com/ardnew/shibo/log"
)

type (
	contextKey struct{}
	optionsKey struct{}
	stdioKey   struct{}
)

// stdio is the input and output of the commands.
type stdio struct {
	in  io.Reader
	out io.Writer
}

// WithContext returns a context carrying the parsed command line.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// WithOptions returns a context carrying interpreter options that every
// command applies.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// WithStdio returns a context whose commands read from in and write to out
// instead of the process streams.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdioFrom(ctx context.Context) stdio {
	s, _ := ctx.Value(stdioKey{}).(stdio)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	return s
}

// interpreterOptions returns the options shared by every command: the
// default natives and modules, the command's streams and logger, then any
// options from ctx, then extra.
func interpreterOptions(ctx context.Context, extra ...lang.Option) []lang.Option {
	s := stdioFrom(ctx)

	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithNatives(builtin.Default()),
		lang.WithModuleHook(builtin.Modules),
		lang.WithStdout(s.out),
		lang.WithStdin(s.in),
	}

	opts = append(opts, optionsFrom(ctx)...)

	return append(opts, extra...)
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// source is an opened script.
type source struct {
	name string
	io.ReadCloser
}

// openSources opens paths in order. Paths naming the same file, through
// symlinks or relative spellings, are opened once. Standard input may be
// named with "-" and is read after all regular files.
func openSources(paths []string, stdin io.Reader) ([]source, error) {
	var (
		srcs     []source
		seen     []os.FileInfo
		useStdin bool
	)

	closeAll := func() {
		for _, s := range srcs {
			_ = s.Close()
		}
	}

	for _, path := range paths {
		if path == stdinSource {
			useStdin = true

			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			closeAll()

			return nil, ErrOpenSource.Wrap(err)
		}

		if dup(seen, info) {
			continue
		}

		seen = append(seen, info)

		f, err := os.Open(path)
		if err != nil {
			closeAll()

			return nil, ErrOpenSource.Wrap(err)
		}

		srcs = append(srcs, source{name: filepath.Clean(path), ReadCloser: f})
	}

	if useStdin {
		srcs = append(srcs, source{name: "<stdin>", ReadCloser: io.NopCloser(stdin)})
	}

	return srcs, nil
}

func dup(seen []os.FileInfo, info os.FileInfo) bool {
	for _, s := range seen {
		if os.SameFile(s, info) {
			return true
		}
	}

	return false
}

// readSource reads the whole of a single source path.
func readSource(ctx context.Context, path string) (string, error) {
	srcs, err := openSources([]string{path}, stdioFrom(ctx).in)
	if err != nil {
		return "", err
	}

	if len(srcs) == 0 {
		return "", ErrOpenSource.Wrap(errors.New("no source"))
	}

	defer srcs[0].Close()

	data, err := io.ReadAll(srcs[0])
	if err != nil {
		return "", ErrOpenSource.Wrap(err)
	}

	return string(data), nil
}
