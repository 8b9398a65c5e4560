package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/builtin"
	"github.com/ardnew/shibo/log"
)

// resolve returns a [kong.ConfigurationLoader] that runs a configuration
// script and exposes its globals as flag values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.shibo")
//
// Each global names a flag, with underscores standing in for hyphens:
//
//	var log_level = "debug"
//	var log_pretty = false
//	var lang_path = ["/opt/shibo/lib", "lib"]
//
// Functions and classes are ignored, so the script may compute values with
// helpers. Command-line flags override config values. A script that fails to
// parse or run is logged and contributes nothing.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "config parse", slog.Any("error", err))

			return config{}, nil
		}

		in := lang.New(
			lang.WithLogger(log.Default()),
			lang.WithNatives(builtin.Default()),
			lang.WithModuleHook(builtin.Modules),
			lang.WithStdout(io.Discard),
		)

		if _, err := in.Eval(ctx, prog, nil); err != nil {
			log.WarnContext(ctx, "config eval", slog.Any("error", err))

			return config{}, nil
		}

		return config(globalsToMap(in.Globals())), nil
	}
}

// config implements [kong.Resolver] over the globals of a config script.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}

// globalsToMap converts the data globals of env to flag values.
func globalsToMap(env *lang.Env) map[string]any {
	result := make(map[string]any)

	for name, v := range env.All() {
		switch v.(type) {
		case *lang.Function, *lang.Class, *lang.Native, lang.Null:
			continue
		}

		result[name] = flagValue(lang.ToNative(v))
	}

	return result
}

// flagValue converts native data to what kong parses. Numbers become
// strings and lists convert element-wise.
func flagValue(x any) any {
	switch v := x.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	}

	return x
}
