package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/shibo/cli/cmd/repl"
	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/log"
)

// Run executes scripts in one interpreter, so later scripts see the globals
// of earlier ones.
type Run struct {
	Scripts []string `arg:"" help:"Script files to run in order, or '-' for stdin." name:"script" optional:""`
}

// Run executes the run command. Without scripts it starts the REPL when
// standard input is a terminal and otherwise runs standard input.
func (r *Run) Run(ctx context.Context) error {
	scripts := r.Scripts

	if len(scripts) == 0 {
		if repl.IsTerminal(stdioFrom(ctx).in) {
			return (&Repl{History: true}).Run(ctx)
		}

		scripts = []string{stdinSource}
	}

	srcs, err := openSources(scripts, stdioFrom(ctx).in)
	if err != nil {
		return err
	}

	defer func() {
		for _, s := range srcs {
			_ = s.Close()
		}
	}()

	in := lang.New(interpreterOptions(ctx)...)

	for _, src := range srcs {
		log.DebugContext(ctx, "run script", slog.String("script", src.name))

		prog, err := lang.ParseReader(ctx, src, lang.WithLogger(log.Default()))
		if err != nil {
			return ErrScript.With(slog.String("script", src.name)).Wrap(err)
		}

		if _, err := in.Eval(ctx, prog, nil); err != nil {
			return ErrScript.With(slog.String("script", src.name)).Wrap(err)
		}
	}

	return nil
}
