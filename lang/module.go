package lang

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xyproto/env/v2"
)

// Ext is the file extension of script sources.
const Ext = ".shibo"

// PathEnv names the environment variable holding extra module directories,
// separated by the platform list separator.
const PathEnv = "SHIBO_PATH"

// ModuleHook resolves modules that have no source file, such as modules
// implemented by the host.
type ModuleHook func(name string) (Registry, bool)

// DefaultModulePath lists the directories searched before any configured
// ones.
func DefaultModulePath() []string {
	return []string{".", "modules", "lib"}
}

// SearchPath returns the directories searched for module files in order.
func (in *Interpreter) SearchPath() []string {
	dirs := DefaultModulePath()

	if list := env.Str(PathEnv); list != "" {
		for _, dir := range filepath.SplitList(list) {
			if dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}

	return append(dirs, in.cfg.modulePath...)
}

// Module returns a module loaded earlier, if any.
func (in *Interpreter) Module(name string) (*Env, bool) {
	mod, ok := in.modules[name]

	return mod, ok
}

// findModule returns the first readable file for name on the search path.
func (in *Interpreter) findModule(name string) (string, bool) {
	for _, dir := range in.SearchPath() {
		path := filepath.Join(dir, name+Ext)

		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}

	return "", false
}

// load returns the environment of module name, evaluating its source on
// first use. A module that fails to load is not cached.
func (in *Interpreter) load(name string, line int) (*Env, error) {
	if mod, ok := in.modules[name]; ok {
		in.cfg.logger.TraceContext(in.ctx, "module",
			slog.String("name", name),
			slog.Bool("cache_hit", true),
		)

		return mod, nil
	}

	if i := slices.Index(in.loading, name); i >= 0 {
		chain := append(slices.Clone(in.loading[i:]), name)

		return nil, &Fault{
			Msg:   "import cycle: " + strings.Join(chain, " -> "),
			Line:  line,
			Cause: ErrImportCycle,
		}
	}

	if path, ok := in.findModule(name); ok {
		mod, err := in.loadFile(name, path)
		if err != nil {
			return nil, err
		}

		in.modules[name] = mod

		return mod, nil
	}

	if in.cfg.moduleHook != nil {
		if natives, ok := in.cfg.moduleHook(name); ok {
			in.cfg.logger.TraceContext(in.ctx, "module",
				slog.String("name", name),
				slog.String("source", "host"),
			)

			mod := NewEnv()
			for k, v := range natives {
				mod.Set(k, v)
			}

			in.modules[name] = mod

			return mod, nil
		}
	}

	return nil, &Fault{
		Msg:   "Module '" + name + "' not found",
		Line:  line,
		Cause: ErrModuleNotFound,
	}
}

func (in *Interpreter) loadFile(name, path string) (*Env, error) {
	in.cfg.logger.TraceContext(in.ctx, "module",
		slog.String("name", name),
		slog.String("source", path),
		slog.Bool("cache_hit", false),
	)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Fault{Msg: "Module '" + name + "' not found", Cause: ErrModuleNotFound}
		}

		return nil, &Fault{Msg: err.Error(), Cause: err}
	}
	defer f.Close()

	prog, err := ParseReader(in.ctx, f, WithLogger(in.cfg.logger))
	if err != nil {
		return nil, &Fault{Msg: "module '" + name + "': " + err.Error(), Cause: err}
	}

	in.loading = append(in.loading, name)
	defer func() { in.loading = in.loading[:len(in.loading)-1] }()

	mod := NewEnv()

	prevModule, prevLoops, prevFunc := in.module, in.loops, in.inFunc
	in.module, in.loops, in.inFunc = mod, 0, false

	defer func() {
		in.module, in.loops, in.inFunc = prevModule, prevLoops, prevFunc
	}()

	if _, err := in.block(prog.Body, mod); err != nil {
		return nil, err
	}

	return mod, nil
}
