package repl

import "errors"

// ErrUnknownCommand is returned for a ':' command the REPL does not define.
var ErrUnknownCommand = errors.New("unknown command")
