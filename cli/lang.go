package cli

import (
	"slices"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/pkg"
)

// langConfig holds the interpreter options shared by every command.
type langConfig struct {
	StrictNames     bool     `default:"false"          help:"Fault on undefined names instead of yielding null." negatable:""`
	LexicalClosures bool     `default:"false"          help:"Capture the defining scope in nested functions."    negatable:""`
	CatchSignals    bool     `default:"true"           help:"Let catch intercept return, break and continue."    negatable:""`
	IsolateDefaults bool     `default:"false"          help:"Copy class field defaults into each instance."      negatable:""`
	CheckInterfaces bool     `default:"false"          help:"Verify that classes implement declared interfaces." negatable:""`
	MaxDepth        int      `default:"${langMaxDepth}" help:"Maximum call depth."`
	Path            []string `help:"Additional module search directories (also ${langPathEnv})." type:"path"`
}

func (*langConfig) vars() kong.Vars {
	return kong.Vars{
		"langMaxDepth": strconv.Itoa(lang.DefaultMaxDepth),
		"langPathEnv":  lang.PathEnv,
	}
}

func (*langConfig) group() kong.Group {
	return kong.Group{Key: "lang", Title: "Language options"}
}

// options returns the interpreter options for the parsed flags. The user's
// module directory is searched after any directories given with --lang-path.
func (c *langConfig) options() []lang.Option {
	return []lang.Option{
		lang.WithStrictNames(c.StrictNames),
		lang.WithLexicalClosures(c.LexicalClosures),
		lang.WithCatchSignals(c.CatchSignals),
		lang.WithIsolateDefaults(c.IsolateDefaults),
		lang.WithCheckInterfaces(c.CheckInterfaces),
		lang.WithMaxDepth(c.MaxDepth),
		lang.WithModulePath(slices.Concat(c.Path, []string{pkg.ModuleDir()})...),
	}
}
