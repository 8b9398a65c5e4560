package lang

import (
	"io"
	"os"

	"github.com/ardnew/shibo/log"
)

// DefaultMaxDepth is the default limit on nested function calls.
const DefaultMaxDepth = 1000

// config holds interpreter settings.
type config struct {
	logger          log.Logger
	stdout          io.Writer
	stdin           io.Reader
	natives         Registry
	modulePath      []string
	moduleHook      ModuleHook
	maxDepth        int
	strictNames     bool
	lexicalClosures bool
	catchSignals    bool
	isolateDefaults bool
	checkInterfaces bool
}

// Option configures an [Interpreter] or a parse.
type Option func(*config)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStdout sets the writer print and native output go to.
func WithStdout(w io.Writer) Option {
	return func(c *config) {
		c.stdout = w
	}
}

// WithStdin sets the reader input() consumes.
func WithStdin(r io.Reader) Option {
	return func(c *config) {
		c.stdin = r
	}
}

// WithNatives adds host values to the global fallback table. Later calls
// override earlier bindings of the same name.
func WithNatives(natives Registry) Option {
	return func(c *config) {
		if c.natives == nil {
			c.natives = Registry{}
		}

		for name, v := range natives {
			c.natives[name] = v
		}
	}
}

// WithMaxDepth limits nested calls. Values below 1 disable the limit.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithStrictNames makes reading an unbound name a fault instead of Null.
func WithStrictNames(strict bool) Option {
	return func(c *config) {
		c.strictNames = strict
	}
}

// WithLexicalClosures makes function calls read through the environment
// that was active where the function was defined, instead of only the
// module globals.
func WithLexicalClosures(lexical bool) Option {
	return func(c *config) {
		c.lexicalClosures = lexical
	}
}

// WithCatchSignals controls whether try/catch also intercepts break,
// continue and return raised inside the try block. Enabled by default.
func WithCatchSignals(catch bool) Option {
	return func(c *config) {
		c.catchSignals = catch
	}
}

// WithIsolateDefaults deep-copies class attribute defaults into each new
// instance instead of sharing them.
func WithIsolateDefaults(isolate bool) Option {
	return func(c *config) {
		c.isolateDefaults = isolate
	}
}

// WithCheckInterfaces verifies at class definition that every method of
// each implemented interface exists.
func WithCheckInterfaces(check bool) Option {
	return func(c *config) {
		c.checkInterfaces = check
	}
}

// WithModulePath appends directories to the module search path.
func WithModulePath(dirs ...string) Option {
	return func(c *config) {
		c.modulePath = append(c.modulePath, dirs...)
	}
}

// WithModuleHook sets the resolver consulted when no module file is found.
func WithModuleHook(hook ModuleHook) Option {
	return func(c *config) {
		c.moduleHook = hook
	}
}

func makeConfig(opts ...Option) config {
	c := config{
		stdout:       os.Stdout,
		stdin:        os.Stdin,
		maxDepth:     DefaultMaxDepth,
		catchSignals: true,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}
