//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the interpreter, embedded at build
// time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories and prefixes environment variables.
	Name = "shibo"
	// Description is the one-line summary shown in help output.
	Description = "Shiboscript interpreter"
	// Ext is the file extension of scripts and modules.
	Ext = ".shibo"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary authors.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
