package lang

import (
	"fmt"
	"log/slog"
)

// call dispatches fn with already evaluated arguments.
func (in *Interpreter) call(fn Value, args []Value, line int) (Value, error) {
	if err := in.checkContext(line); err != nil {
		return nil, err
	}

	switch f := fn.(type) {
	case *Function:
		return in.callFunction(f, args, line)

	case *Class:
		return in.instantiate(f, args, line)

	case Callable:
		if err := in.push(line); err != nil {
			return nil, err
		}
		defer in.pop()

		v, err := f.Call(in, args)
		if err != nil {
			if isCancel(err) {
				return nil, err
			}

			return nil, asFault(err, line)
		}

		if v == nil {
			v = Null{}
		}

		return v, nil
	}

	return nil, &Fault{
		Msg:   fmt.Sprintf("'%s' object is not callable", fn.Type()),
		Line:  line,
		Cause: ErrNotCallable,
	}
}

func (in *Interpreter) push(line int) error {
	in.depth++

	if in.cfg.maxDepth > 0 && in.depth > in.cfg.maxDepth {
		in.depth--

		in.cfg.logger.TraceContext(in.ctx, "call depth exceeded",
			slog.Int("depth", in.depth),
			slog.Int("line", line),
		)

		return &Fault{Msg: "maximum recursion depth exceeded", Line: line, Cause: ErrMaxDepth}
	}

	return nil
}

func (in *Interpreter) pop() { in.depth-- }

// callFunction runs a user function in a fresh environment that reads
// through to the function's module globals, or to its defining scope when
// lexical closures are enabled.
func (in *Interpreter) callFunction(f *Function, args []Value, line int) (Value, error) {
	params := f.Def.Params

	parent := f.Globals
	if in.cfg.lexicalClosures && f.Scope != nil {
		parent = f.Scope
	}

	if parent == nil {
		parent = in.globals
	}

	local := parent.Child()

	if f.Self != nil && len(params) > 0 {
		local.Set(params[0], f.Self)
		params = params[1:]
	}

	if len(args) != len(params) {
		return nil, &Fault{
			Msg:   fmt.Sprintf("Expected %d arguments, got %d", len(params), len(args)),
			Line:  line,
			Cause: ErrArity,
		}
	}

	for i, p := range params {
		local.Set(p, args[i])
	}

	if err := in.push(line); err != nil {
		return nil, err
	}
	defer in.pop()

	prevModule, prevLoops, prevFunc := in.module, in.loops, in.inFunc
	in.module, in.loops, in.inFunc = f.Globals, 0, true

	defer func() {
		in.module, in.loops, in.inFunc = prevModule, prevLoops, prevFunc
	}()

	if in.module == nil {
		in.module = in.globals
	}

	c, err := in.block(f.Def.Body, local)
	if err != nil {
		return nil, err
	}

	if c.sig == sigReturn {
		return c.value, nil
	}

	return Null{}, nil
}

// instantiate creates an instance of c, seeding fields from the class
// defaults and then its base defaults, and runs init when present.
func (in *Interpreter) instantiate(c *Class, args []Value, line int) (Value, error) {
	inst := &Instance{Class: c, Fields: map[string]Value{}}

	seed := func(k *Class) {
		for _, name := range k.order {
			v := k.Defaults[name]
			if in.cfg.isolateDefaults {
				v = DeepCopy(v)
			}

			inst.Fields[name] = v
		}
	}

	seed(c)

	if base := c.Base(); base != nil {
		seed(base)
	}

	def, ok := c.Method("init")
	if !ok {
		return inst, nil
	}

	init := &Function{Def: def, Self: inst, Globals: c.globals}
	if _, err := in.callFunction(init, args, line); err != nil {
		return nil, err
	}

	return inst, nil
}
