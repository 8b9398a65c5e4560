// Package cli contains the command line interface for shibo.
//
// # Usage
//
//	shibo [flags] [script ...]
//	shibo repl
//	shibo tokens script.shibo
//	shibo fmt json script.shibo
//	shibo init
//
// With no command, scripts named on the command line run in order in one
// interpreter. Without scripts, an interactive session starts when stdin is
// a terminal, and stdin is run as a script otherwise.
//
// # Configuration
//
// Flags are read, lowest precedence first, from the JSON file
// config.shibo.json and the script config.shibo in the user configuration
// directory, then from SHIBO_* environment variables and the command line.
// The script is run and its globals name flags, with underscores in place
// of hyphens:
//
//	var log_level = "debug"
//	var lang_strict_names = true
//
// "shibo init" writes such a script holding the current flag values.
//
// # Language Options
//
//   - --lang-strict-names: fault on undefined names
//   - --lang-lexical-closures: nested functions capture their scope
//   - --[no-]lang-catch-signals: catch intercepts return/break/continue
//   - --lang-isolate-defaults: copy field defaults per instance
//   - --lang-check-interfaces: verify declared interfaces
//   - --lang-max-depth: call depth limit
//   - --lang-path: extra module directories
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: json or text
//   - --log-time-layout: timestamp layout, or none
//   - --log-caller: include the source location
//   - --[no-]log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o shibo .
//
// It adds --pprof-mode and --pprof-dir (default ~/.cache/shibo/pprof).
package cli
