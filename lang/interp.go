package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/shibo/lang/ast"
)

// Caller is the view of the interpreter given to native functions. It lets
// a native call back into script functions it received as arguments.
type Caller interface {
	Call(ctx context.Context, fn Value, args ...Value) (Value, error)
	Context() context.Context
	Stdout() io.Writer
	Stdin() io.Reader
}

// Interpreter evaluates programs against a global environment.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	cfg     config
	globals *Env
	modules map[string]*Env
	loading []string

	ctx    context.Context
	module *Env
	depth  int
	loops  int
	inFunc bool
}

// New returns an interpreter with an empty global environment.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		cfg:     makeConfig(opts...),
		globals: NewEnv(),
		modules: map[string]*Env{},
		ctx:     context.Background(),
	}

	in.module = in.globals

	return in
}

// Globals returns the environment used by [Interpreter.Run].
func (in *Interpreter) Globals() *Env { return in.globals }

// Natives returns the host values visible to every script.
func (in *Interpreter) Natives() Registry { return in.cfg.natives }

// Context returns the context of the evaluation in progress.
func (in *Interpreter) Context() context.Context { return in.ctx }

// Stdout returns the output writer.
func (in *Interpreter) Stdout() io.Writer { return in.cfg.stdout }

// Stdin returns the input reader.
func (in *Interpreter) Stdin() io.Reader { return in.cfg.stdin }

// Run parses source and evaluates it in the global environment.
func (in *Interpreter) Run(ctx context.Context, source string) (Value, error) {
	prog, err := ParseString(source)
	if err != nil {
		return nil, err
	}

	return in.Eval(ctx, prog, nil)
}

// Eval executes prog in env, or in the global environment when env is nil.
// The result is the value of the last expression statement executed at the
// top level, or Null.
func (in *Interpreter) Eval(
	ctx context.Context,
	prog *ast.Program,
	env *Env,
) (Value, error) {
	if env == nil {
		env = in.globals
	}

	restore := in.enter(ctx, env)
	defer restore()

	var last Value = Null{}

	for _, stmt := range prog.Body {
		if es, ok := stmt.(*ast.ExprStmt); ok {
			v, err := in.eval(es.X, env)
			if err != nil {
				return nil, in.report(err)
			}

			last = v

			continue
		}

		c, err := in.exec(stmt, env)
		if err != nil {
			return nil, in.report(err)
		}

		if c.sig == sigReturn {
			return nil, in.report(&Fault{Msg: "return outside function", Line: stmt.Pos(), Cause: ErrSignal})
		}
	}

	return last, nil
}

// Call invokes fn with args. It is safe to call from a native function
// while an evaluation is in progress.
func (in *Interpreter) Call(
	ctx context.Context,
	fn Value,
	args ...Value,
) (Value, error) {
	if ctx == nil {
		ctx = in.ctx
	}

	prev := in.ctx
	in.ctx = ctx

	defer func() { in.ctx = prev }()

	return in.call(fn, args, 0)
}

// enter installs ctx and env as the module context of a top-level
// evaluation and returns a func that restores the previous state.
func (in *Interpreter) enter(ctx context.Context, env *Env) func() {
	prevCtx, prevModule := in.ctx, in.module
	prevLoops, prevFunc := in.loops, in.inFunc

	in.ctx, in.module, in.loops, in.inFunc = ctx, env, 0, false

	return func() {
		in.ctx, in.module = prevCtx, prevModule
		in.loops, in.inFunc = prevLoops, prevFunc
	}
}

func (in *Interpreter) report(err error) error {
	var f *Fault
	if errors.As(err, &f) {
		in.cfg.logger.TraceContext(in.ctx, "uncaught fault",
			slog.Any("fault", f),
			slog.Int("depth", in.depth),
		)
	}

	return err
}

// checkContext faults when the evaluation context is done.
func (in *Interpreter) checkContext(line int) error {
	if err := in.ctx.Err(); err != nil {
		return &Fault{Msg: err.Error(), Line: line, Cause: err}
	}

	return nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
