package builtin

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/xyproto/env/v2"

	"github.com/ardnew/shibo/lang"
)

func osGroup() map[string]lang.Value {
	m := members(
		// get_env(name[, default]) returns the variable's value, default when
		// it is unset, or null.
		native("get_env", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("get_env", args, 1, 2); err != nil {
				return nil, err
			}

			name, err := str("get_env", args, 0)
			if err != nil {
				return nil, err
			}

			v, ok := os.LookupEnv(name)
			if !ok {
				if len(args) > 1 {
					return args[1], nil
				}

				return lang.Null{}, nil
			}

			return lang.Str(v), nil
		}),
		native("set_env", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("set_env", args, 2, 2); err != nil {
				return nil, err
			}

			name, err := str("set_env", args, 0)
			if err != nil {
				return nil, err
			}

			return lang.Null{}, os.Setenv(name, lang.Display(args[1]))
		}),
		native("get_cwd", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("get_cwd", args, 0, 0); err != nil {
				return nil, err
			}

			return lang.Str(cwd()), nil
		}),
		native("change_dir", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("change_dir", args, 1, 1); err != nil {
				return nil, err
			}

			dir, err := str("change_dir", args, 0)
			if err != nil {
				return nil, err
			}

			return lang.Null{}, os.Chdir(dir)
		}),
		// list_dir(path) returns the sorted names of the entries in path.
		native("list_dir", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			if err := arity("list_dir", args, 0, 1); err != nil {
				return nil, err
			}

			dir, err := optional[lang.Str]("list_dir", args, 0, ".")
			if err != nil {
				return nil, err
			}

			entries, err := os.ReadDir(string(dir))
			if err != nil {
				return nil, err
			}

			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.Name()
			}

			slices.Sort(names)

			return strList(names), nil
		}),
		native("exists", existsFn),
		native("is_dir", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			path, err := pathArg("is_dir", args)
			if err != nil {
				return nil, err
			}

			info, err := os.Stat(path)

			return lang.Bool(err == nil && info.IsDir()), nil
		}),
		native("abs", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			path, err := pathArg("abs", args)
			if err != nil {
				return nil, err
			}

			return lang.Str(absPath(path)), nil
		}),
		native("join", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
			return lang.Str(filepath.Join(displayAll(args)...)), nil
		}),
		native("run_command", runCommand),
		native("path_prefix", pathPrefix),
	)

	m["platform"] = platformDict(goHost())
	m["target"] = platformDict(gnuHost())
	m["hostname"] = lang.Str(hostname())
	m["user"] = lang.Str(username())
	m["shell"] = lang.Str(shell())

	return m
}

func pathArg(fn string, args []lang.Value) (string, error) {
	if err := arity(fn, args, 1, 1); err != nil {
		return "", err
	}

	return str(fn, args, 0)
}

// run_command(cmd) runs cmd with the system shell and returns a dict of
// stdout, stderr and returncode. A command that runs and exits non-zero is
// not a fault.
func runCommand(c lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("run_command", args, 1, 1); err != nil {
		return nil, err
	}

	line, err := str("run_command", args, 0)
	if err != nil {
		return nil, err
	}

	sh, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		sh, flag = "cmd", "/C"
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(c.Context(), sh, flag, line)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0

	if err := cmd.Run(); err != nil {
		var exit *exec.ExitError
		if !errors.As(err, &exit) || c.Context().Err() != nil {
			return nil, err
		}

		code = exit.ExitCode()
	}

	d := lang.NewDict()
	d.SetStr("stdout", lang.Str(stdout.String()))
	d.SetStr("stderr", lang.Str(stderr.String()))
	d.SetStr("returncode", lang.Int(code))

	return d, nil
}

// path_prefix(list, items...) prepends items to the path list, dropping
// duplicates. path_prefix(list, pred, items...) keeps only the items for
// which the function pred returns a truthy value.
func pathPrefix(c lang.Caller, args []lang.Value) (lang.Value, error) {
	if err := arity("path_prefix", args, 1, -1); err != nil {
		return nil, err
	}

	list, err := str("path_prefix", args, 0)
	if err != nil {
		return nil, err
	}

	delim := string(os.PathListSeparator)
	items := args[1:]

	if len(items) > 0 {
		switch pred := items[0].(type) {
		case *lang.Function, *lang.Native:
			var failed error

			keep := func(s string) bool {
				if failed != nil {
					return false
				}

				v, err := c.Call(c.Context(), pred, lang.Str(s))
				if err != nil {
					failed = err

					return false
				}

				return lang.Truthy(v)
			}

			out := mung.Make(
				mung.WithSubjectItems(list),
				mung.WithDelim(delim),
				mung.WithPrefixItems(displayAll(items[1:])...),
				mung.WithFilter(keep),
			).String()
			if failed != nil {
				return nil, failed
			}

			return lang.Str(out), nil
		}
	}

	return lang.Str(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(delim),
		mung.WithPrefixItems(displayAll(items)...),
	).String()), nil
}

func platformDict(t host) *lang.Dict {
	d := lang.NewDict()
	d.SetStr("os", lang.Str(t.OS))
	d.SetStr("arch", lang.Str(t.Arch))

	return d
}

// host identifies an operating system and instruction set architecture.
type host struct {
	OS   string
	Arch string
}

// gnuHost returns the host using GNU GCC/LLVM naming conventions.
func gnuHost() host {
	t := goHost()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// goHost returns the host using Go conventions. GOHOSTOS/GOOS and
// GOHOSTARCH/GOARCH override the running system.
func goHost() host {
	return host{
		OS:   env.Str("GOHOSTOS", env.Str("GOOS", runtime.GOOS)),
		Arch: env.Str("GOHOSTARCH", env.Str("GOARCH", runtime.GOARCH)),
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}

	return h
}

func username() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}

	return u.Username
}

// shell returns $SHELL, or the login shell of the current user from
// /etc/passwd.
func shell() string {
	if sh, ok := os.LookupEnv("SHELL"); ok {
		return sh
	}

	name := username()
	if name == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == name {
			return e[6]
		}
	}

	return ""
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return absPath(".")
	}

	return dir
}

func absPath(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}
