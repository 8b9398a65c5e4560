// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is configured once with functional options and then shared by
// value:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("module loaded", slog.String("name", "utils"))
//
// Levels extend slog's with [LevelTrace], which the interpreter uses for
// module resolution and cache diagnostics. [Level] and [Format] implement
// [encoding.TextUnmarshaler], so command-line parsers can decode them
// directly.
//
// Pretty output, the default, colorizes keys and values with ANSI escapes
// and expands [slog.LogValuer] groups into dotted keys. Disable it with
// [WithPretty] when writing to a file or another program.
//
// The package-level functions ([Info], [Debug], ...) write through a default
// logger that [Config] reconfigures.
package log
