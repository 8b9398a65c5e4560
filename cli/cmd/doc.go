// Package cmd implements the shibo subcommands: run, tokens, fmt, repl and
// init.
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the
	// configuration script.
	ConfigIdentifier = "config"
)
