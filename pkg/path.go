package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix is the executable's base name without extension. It names the
// per-user directories, so a renamed binary keeps separate state. Debugger
// builds ("__debug_bin123") map to [Name] and leading dots are dropped.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		id = debugBin.ReplaceAllString(id, Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return Name
		}

		return id
	},
)

// ConfigDir is the per-user directory holding config.shibo and user
// modules.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir(os.UserConfigDir, ".config")
	},
)

// CacheDir is the per-user directory for REPL history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir(os.UserCacheDir, ".cache")
	},
)

//nolint:gochecknoglobals
var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

// userDir joins [Prefix] to the directory from base, falling back to a
// hidden directory under home and then the working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigFile is the path of the user configuration script.
func ConfigFile() string { return filepath.Join(ConfigDir(), "config"+Ext) }

// ModuleDir is the per-user module directory searched after SHIBO_PATH.
func ModuleDir() string { return filepath.Join(ConfigDir(), "modules") }

// HistoryFile is the path of the REPL history.
func HistoryFile() string { return filepath.Join(CacheDir(), "history") }
