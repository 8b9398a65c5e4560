package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shibo/log"
)

// logLevel configures the logger as a side effect of parsing, so that
// messages logged while kong is still parsing already use it.
type logLevel log.Level

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	if err := (*log.Level)(l).UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithLevel(log.Level(*l)))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l logLevel) MarshalText() ([]byte, error) { return log.Level(l).MarshalText() }

// logFormat is the format counterpart of [logLevel].
type logFormat log.Format

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	if err := (*log.Format)(f).UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithFormat(log.Format(*f)))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f logFormat) MarshalText() ([]byte, error) { return log.Format(f).MarshalText() }

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  help:"Set log level (${logLevels})."`
	Format     logFormat `default:"${logFormat}" help:"Set log format (${logFormats})."`
	TimeLayout string    `default:"RFC3339"      help:"Set timestamp layout, or 'none'."`
	Caller     bool      `default:"false"        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":   log.DefaultLevel.String(),
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ", "),
		"logFormat":  log.DefaultFormat.String(),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ", "),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logger flag, including those without a
// parse-time side effect.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.Level(f.Level)),
		log.WithFormat(log.Format(f.Format)),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", log.Level(f.Level).String()),
		slog.String("format", log.Format(f.Format).String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before kong parses them, so the
// logger is configured regardless of flag position. Boolean flags have no
// TextUnmarshaler hook and are only handled here.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg, negated := args[i], false

		if rest, ok := strings.CutPrefix(arg, "--no-log-"); ok {
			arg, negated = "--log-"+rest, true
		}

		name, value, assigned := strings.Cut(arg, "=")

		switch name {
		case "--log-level", "--log-format":
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			if name == "--log-level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "--log-pretty", "--log-caller":
			enable := true
			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				enable = v
			}

			enable = enable != negated

			if name == "--log-pretty" {
				f.Pretty = enable
				log.Config(log.WithPretty(enable))
			} else {
				f.Caller = enable
				log.Config(log.WithCaller(enable))
			}
		}
	}
}
