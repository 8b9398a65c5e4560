package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shibo/cli/cmd/repl"
	"github.com/ardnew/shibo/log"
	"github.com/ardnew/shibo/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	History bool `default:"true" help:"Persist input history." negatable:""`
	Line    bool `help:"Read plain lines even when stdin is a terminal."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	cfg := repl.Config{
		Options: interpreterOptions(ctx),
		Logger:  log.Default(),
		Line:    r.Line,
	}

	if r.History {
		cfg.HistoryFile = historyFile(kongContextFrom(ctx))
	}

	s := stdioFrom(ctx)

	log.DebugContext(ctx, "repl start",
		slog.String("history", cfg.HistoryFile),
		slog.Bool("line", cfg.Line),
	)

	return repl.Run(ctx, s.in, s.out, cfg)
}

// historyFile places the history in the cache directory chosen on the
// command line.
func historyFile(ktx *kong.Context) string {
	if ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			return filepath.Join(dir, filepath.Base(pkg.HistoryFile()))
		}
	}

	return pkg.HistoryFile()
}
