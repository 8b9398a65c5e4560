package lang

import (
	"fmt"

	"github.com/ardnew/shibo/lang/ast"
)

type signal int

const (
	sigNone signal = iota
	sigBreak
	sigContinue
	sigReturn
)

// ctrl is the outcome of executing a statement. A non-zero sig asks the
// enclosing loop or function to stop early.
type ctrl struct {
	sig   signal
	value Value
}

func (in *Interpreter) block(body []ast.Stmt, env *Env) (ctrl, error) {
	for _, stmt := range body {
		c, err := in.exec(stmt, env)
		if err != nil || c.sig != sigNone {
			return c, err
		}
	}

	return ctrl{}, nil
}

func (in *Interpreter) exec(stmt ast.Stmt, env *Env) (ctrl, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := in.eval(s.X, env)

		return ctrl{}, err

	case *ast.VarDecl:
		v, err := in.eval(s.Value, env)
		if err != nil {
			return ctrl{}, err
		}

		env.Set(s.Name, v)

		return ctrl{}, nil

	case *ast.Assign:
		v, err := in.eval(s.Value, env)
		if err != nil {
			return ctrl{}, err
		}

		return ctrl{}, in.assign(s.Target, v, env)

	case *ast.Print:
		v, err := in.eval(s.Value, env)
		if err != nil {
			return ctrl{}, err
		}

		if _, err := fmt.Fprintln(in.cfg.stdout, Display(v)); err != nil {
			return ctrl{}, &Fault{Msg: err.Error(), Line: s.Line, Cause: err}
		}

		return ctrl{}, nil

	case *ast.FuncDef:
		env.Set(s.Name, in.function(s, env))

		return ctrl{}, nil

	case *ast.If:
		cond, err := in.eval(s.Cond, env)
		if err != nil {
			return ctrl{}, err
		}

		if Truthy(cond) {
			return in.block(s.Then, env)
		}

		return in.block(s.Else, env)

	case *ast.While:
		return in.loop(s.Line, env, nil, s.Cond, nil, s.Body, false)

	case *ast.DoWhile:
		return in.loop(s.Line, env, nil, s.Cond, nil, s.Body, true)

	case *ast.For:
		return in.loop(s.Line, env, s.Init, s.Cond, s.Post, s.Body, false)

	case *ast.ForIn:
		return in.forIn(s, env)

	case *ast.Break:
		if in.loops == 0 {
			return ctrl{}, &Fault{Msg: "break outside loop", Line: s.Line, Cause: ErrSignal}
		}

		return ctrl{sig: sigBreak}, nil

	case *ast.Continue:
		if in.loops == 0 {
			return ctrl{}, &Fault{Msg: "continue outside loop", Line: s.Line, Cause: ErrSignal}
		}

		return ctrl{sig: sigContinue}, nil

	case *ast.Return:
		if !in.inFunc {
			return ctrl{}, &Fault{Msg: "return outside function", Line: s.Line, Cause: ErrSignal}
		}

		var v Value = Null{}

		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value, env); err != nil {
				return ctrl{}, err
			}
		}

		return ctrl{sig: sigReturn, value: v}, nil

	case *ast.Try:
		return in.try(s, env)

	case *ast.Import:
		mod, err := in.load(s.Module, s.Line)
		if err != nil {
			return ctrl{}, err
		}

		env.Merge(mod)

		return ctrl{}, nil

	case *ast.FromImport:
		return ctrl{}, in.fromImport(s, env)

	case *ast.ClassDef:
		return ctrl{}, in.classDef(s, env)

	case *ast.InterfaceDef:
		env.Set(s.Name, interfaceValue(s))

		return ctrl{}, nil
	}

	return ctrl{}, &Fault{
		Msg:  fmt.Sprintf("unsupported statement %T", stmt),
		Line: stmt.Pos(),
	}
}

// loop runs while, do-while and three-clause for statements.
func (in *Interpreter) loop(
	line int,
	env *Env,
	init ast.Stmt,
	cond ast.Expr,
	post ast.Stmt,
	body []ast.Stmt,
	bodyFirst bool,
) (ctrl, error) {
	if init != nil {
		if _, err := in.exec(init, env); err != nil {
			return ctrl{}, err
		}
	}

	in.loops++
	defer func() { in.loops-- }()

	for first := true; ; first = false {
		if err := in.checkContext(line); err != nil {
			return ctrl{}, err
		}

		if cond != nil && !(bodyFirst && first) {
			v, err := in.eval(cond, env)
			if err != nil {
				return ctrl{}, err
			}

			if !Truthy(v) {
				return ctrl{}, nil
			}
		}

		c, err := in.block(body, env)
		if err != nil {
			return ctrl{}, err
		}

		switch c.sig {
		case sigBreak:
			return ctrl{}, nil
		case sigReturn:
			return c, nil
		}

		if post != nil {
			if _, err := in.exec(post, env); err != nil {
				return ctrl{}, err
			}
		}
	}
}

func (in *Interpreter) forIn(s *ast.ForIn, env *Env) (ctrl, error) {
	iter, err := in.eval(s.Iter, env)
	if err != nil {
		return ctrl{}, err
	}

	var items []Value

	switch it := iter.(type) {
	case *List:
		items = append(items, it.Elems...)
	case *Dict:
		items = it.Keys()
	case *Set:
		items = it.Elems()
	case Str:
		for _, r := range string(it) {
			items = append(items, Str(string(r)))
		}
	default:
		return ctrl{}, &Fault{
			Msg:  fmt.Sprintf("'%s' object is not iterable", iter.Type()),
			Line: s.Line,
		}
	}

	in.loops++
	defer func() { in.loops-- }()

	for _, item := range items {
		if err := in.checkContext(s.Line); err != nil {
			return ctrl{}, err
		}

		env.Set(s.Var, item)

		c, err := in.block(s.Body, env)
		if err != nil {
			return ctrl{}, err
		}

		switch c.sig {
		case sigBreak:
			return ctrl{}, nil
		case sigReturn:
			return c, nil
		}
	}

	return ctrl{}, nil
}

// try runs the try block and, on a fault, the catch block with the fault
// message bound. Cancellation is never caught.
func (in *Interpreter) try(s *ast.Try, env *Env) (ctrl, error) {
	c, err := in.block(s.Body, env)

	switch {
	case err != nil:
		if isCancel(err) {
			return ctrl{}, err
		}

		env.Set(s.Var, Str(asFault(err, s.Line).Msg))

	case c.sig != sigNone && in.cfg.catchSignals:
		var msg string
		if c.sig == sigReturn {
			msg = Display(c.value)
		}

		env.Set(s.Var, Str(msg))

	default:
		return c, nil
	}

	return in.block(s.Catch, env)
}

func (in *Interpreter) function(def *ast.FuncDef, env *Env) *Function {
	return &Function{Def: def, Globals: in.module, Scope: env}
}

func (in *Interpreter) fromImport(s *ast.FromImport, env *Env) error {
	mod, err := in.load(s.Module, s.Line)
	if err != nil {
		return err
	}

	if s.All {
		env.Merge(mod)

		return nil
	}

	for _, name := range s.Names {
		v, ok := mod.Get(name)
		if !ok {
			return &Fault{
				Msg:  fmt.Sprintf("'%s' not found in module '%s'", name, s.Module),
				Line: s.Line,
			}
		}

		env.Set(name, v)
	}

	return nil
}

func (in *Interpreter) classDef(s *ast.ClassDef, env *Env) error {
	cls := &Class{
		Name:       s.Name,
		BaseName:   s.Base,
		Interfaces: s.Interfaces,
		Methods:    map[string]*ast.FuncDef{},
		Defaults:   map[string]Value{},
		scope:      env,
		globals:    in.module,
	}

	for _, stmt := range s.Body {
		switch m := stmt.(type) {
		case *ast.FuncDef:
			cls.Methods[m.Name] = m

		case *ast.VarDecl:
			v, err := in.eval(m.Value, env)
			if err != nil {
				return err
			}

			if _, ok := cls.Defaults[m.Name]; !ok {
				cls.order = append(cls.order, m.Name)
			}

			cls.Defaults[m.Name] = v

		default:
			if _, err := in.exec(stmt, env); err != nil {
				return err
			}
		}
	}

	if in.cfg.checkInterfaces {
		if err := checkInterfaces(cls, env, s.Line); err != nil {
			return err
		}
	}

	env.Set(s.Name, cls)

	return nil
}

// interfaceValue describes an interface as a dict.
func interfaceValue(s *ast.InterfaceDef) *Dict {
	methods := NewDict()

	for _, sig := range s.Methods {
		params := make([]Value, len(sig.Params))
		for i, p := range sig.Params {
			params[i] = Str(p)
		}

		methods.SetStr(sig.Name, NewList(params...))
	}

	d := NewDict()
	d.SetStr("type", Str("interface"))
	d.SetStr("name", Str(s.Name))
	d.SetStr("methods", methods)

	return d
}

func checkInterfaces(cls *Class, env *Env, line int) error {
	for _, name := range cls.Interfaces {
		v, ok := env.Get(name)
		if !ok {
			return &Fault{Msg: fmt.Sprintf("interface '%s' is not defined", name), Line: line}
		}

		iface, ok := v.(*Dict)
		if !ok {
			return &Fault{Msg: fmt.Sprintf("'%s' is not an interface", name), Line: line}
		}

		if kind, _ := iface.GetStr("type"); !Equal(kind, Str("interface")) {
			return &Fault{Msg: fmt.Sprintf("'%s' is not an interface", name), Line: line}
		}

		methods, _ := iface.GetStr("methods")

		md, ok := methods.(*Dict)
		if !ok {
			continue
		}

		for _, m := range md.Keys() {
			if _, ok := cls.Method(Display(m)); !ok {
				return &Fault{
					Msg: fmt.Sprintf(
						"Class '%s' does not implement '%s' from interface '%s'",
						cls.Name, Display(m), name,
					),
					Line: line,
				}
			}
		}
	}

	return nil
}
