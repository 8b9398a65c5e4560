package lang

import (
	"fmt"

	"github.com/ardnew/shibo/lang/ast"
)

func (in *Interpreter) eval(expr ast.Expr, env *Env) (Value, error) {
	switch x := expr.(type) {
	case *ast.NumberLit:
		if x.IsFloat {
			return Float(x.Float), nil
		}

		return Int(x.Int), nil

	case *ast.StringLit:
		return Str(x.Value), nil

	case *ast.BoolLit:
		return Bool(x.Value), nil

	case *ast.NullLit:
		return Null{}, nil

	case *ast.Identifier:
		return in.lookup(x.Name, env, x.Line)

	case *ast.ListLit:
		elems, err := in.evalAll(x.Elems, env)
		if err != nil {
			return nil, err
		}

		return NewList(elems...), nil

	case *ast.SetLit:
		elems, err := in.evalAll(x.Elems, env)
		if err != nil {
			return nil, err
		}

		s := NewSet()
		for _, e := range elems {
			if err := s.Add(e); err != nil {
				return nil, asFault(err, x.Line)
			}
		}

		return s, nil

	case *ast.DictLit:
		d := NewDict()

		for _, e := range x.Entries {
			k, err := in.eval(e.Key, env)
			if err != nil {
				return nil, err
			}

			v, err := in.eval(e.Value, env)
			if err != nil {
				return nil, err
			}

			if err := d.Set(k, v); err != nil {
				return nil, asFault(err, x.Line)
			}
		}

		return d, nil

	case *ast.BinaryOp:
		return in.binaryOp(x, env)

	case *ast.UnaryOp:
		v, err := in.eval(x.X, env)
		if err != nil {
			return nil, err
		}

		r, err := Unary(x.Op, v)
		if err != nil {
			return nil, asFault(err, x.Line)
		}

		return r, nil

	case *ast.PrefixOp, *ast.PostfixOp:
		return in.increment(x, env)

	case *ast.Ternary:
		cond, err := in.eval(x.Cond, env)
		if err != nil {
			return nil, err
		}

		if Truthy(cond) {
			return in.eval(x.Then, env)
		}

		return in.eval(x.Else, env)

	case *ast.Call:
		fn, err := in.eval(x.Callee, env)
		if err != nil {
			return nil, err
		}

		args, err := in.evalAll(x.Args, env)
		if err != nil {
			return nil, err
		}

		return in.call(fn, args, x.Line)

	case *ast.Attribute:
		obj, err := in.eval(x.X, env)
		if err != nil {
			return nil, err
		}

		return in.attribute(obj, x.Name, x.Line)

	case *ast.Index:
		obj, err := in.eval(x.X, env)
		if err != nil {
			return nil, err
		}

		idx, err := in.eval(x.Index, env)
		if err != nil {
			return nil, err
		}

		return index(obj, idx, x.Line)

	case *ast.Slice:
		return in.slice(x, env)
	}

	return nil, &Fault{
		Msg:  fmt.Sprintf("unsupported expression %T", expr),
		Line: expr.Pos(),
	}
}

func (in *Interpreter) evalAll(exprs []ast.Expr, env *Env) ([]Value, error) {
	out := make([]Value, len(exprs))

	for i, e := range exprs {
		v, err := in.eval(e, env)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// lookup resolves a name through the environment chain and then the native
// registry.
func (in *Interpreter) lookup(name string, env *Env, line int) (Value, error) {
	if v, ok := env.Get(name); ok {
		return v, nil
	}

	if v, ok := in.cfg.natives[name]; ok {
		return v, nil
	}

	if in.cfg.strictNames {
		return nil, &Fault{Msg: fmt.Sprintf("name '%s' is not defined", name), Line: line}
	}

	return Null{}, nil
}

func (in *Interpreter) binaryOp(x *ast.BinaryOp, env *Env) (Value, error) {
	left, err := in.eval(x.Left, env)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case "&&":
		if !Truthy(left) {
			return left, nil
		}

		return in.eval(x.Right, env)

	case "||":
		if Truthy(left) {
			return left, nil
		}

		return in.eval(x.Right, env)

	case "instanceof":
		// A non-instance is never an instance of anything; the right
		// operand is not evaluated.
		if _, ok := left.(*Instance); !ok {
			return Bool(false), nil
		}

		right, err := in.eval(x.Right, env)
		if err != nil {
			return nil, err
		}

		return instanceOf(left, right), nil
	}

	right, err := in.eval(x.Right, env)
	if err != nil {
		return nil, err
	}

	v, err := Binary(x.Op, left, right)
	if err != nil {
		return nil, asFault(err, x.Line)
	}

	return v, nil
}

func instanceOf(v, class Value) Bool {
	inst, ok := v.(*Instance)
	if !ok {
		return false
	}

	cls, ok := class.(*Class)
	if !ok {
		return false
	}

	return Bool(inst.Class.Extends(cls))
}

// increment evaluates prefix and postfix ++ and --.
func (in *Interpreter) increment(expr ast.Expr, env *Env) (Value, error) {
	var (
		op     string
		target ast.Expr
		prefix bool
	)

	switch x := expr.(type) {
	case *ast.PrefixOp:
		op, target, prefix = x.Op, x.X, true
	case *ast.PostfixOp:
		op, target = x.Op, x.X
	}

	line := expr.Pos()

	if !ast.IsLValue(target) {
		return nil, &Fault{Msg: "invalid target for " + op, Line: line}
	}

	old, err := in.eval(target, env)
	if err != nil {
		return nil, err
	}

	switch old.(type) {
	case Int, Float:
	default:
		return nil, &Fault{
			Msg:  fmt.Sprintf("unsupported operand type for %s: '%s'", op, old.Type()),
			Line: line,
		}
	}

	delta := "+"
	if op == "--" {
		delta = "-"
	}

	updated, err := Binary(delta, old, Int(1))
	if err != nil {
		return nil, asFault(err, line)
	}

	if err := in.assign(target, updated, env); err != nil {
		return nil, err
	}

	if prefix {
		return updated, nil
	}

	return old, nil
}

// assign stores v into an identifier, index or attribute target.
func (in *Interpreter) assign(target ast.Expr, v Value, env *Env) error {
	switch t := target.(type) {
	case *ast.Identifier:
		env.Set(t.Name, v)

		return nil

	case *ast.Index:
		obj, err := in.eval(t.X, env)
		if err != nil {
			return err
		}

		idx, err := in.eval(t.Index, env)
		if err != nil {
			return err
		}

		return setIndex(obj, idx, v, t.Line)

	case *ast.Attribute:
		obj, err := in.eval(t.X, env)
		if err != nil {
			return err
		}

		switch o := obj.(type) {
		case *Instance:
			o.Fields[t.Name] = v

			return nil
		case *Dict:
			o.SetStr(t.Name, v)

			return nil
		case *Class:
			if _, ok := o.Defaults[t.Name]; !ok {
				o.order = append(o.order, t.Name)
			}

			o.Defaults[t.Name] = v

			return nil
		}

		return &Fault{
			Msg:  fmt.Sprintf("cannot set attribute '%s' on '%s'", t.Name, obj.Type()),
			Line: t.Line,
		}
	}

	return &Fault{Msg: "invalid assignment target", Line: target.Pos()}
}

func (in *Interpreter) attribute(obj Value, name string, line int) (Value, error) {
	switch o := obj.(type) {
	case *Instance:
		if v, ok := o.Fields[name]; ok {
			return v, nil
		}

		if def, ok := o.Class.Method(name); ok {
			return &Function{Def: def, Self: o, Globals: o.Class.globals}, nil
		}

		return nil, &Fault{
			Msg:  fmt.Sprintf("'%s' object has no attribute '%s'", o.Class.Name, name),
			Line: line,
		}

	case *Class:
		if def, ok := o.Method(name); ok {
			return &Function{Def: def, Globals: o.globals}, nil
		}

		for k := o; k != nil; k = k.Base() {
			if v, ok := k.Defaults[name]; ok {
				return v, nil
			}
		}

		return nil, &Fault{
			Msg:  fmt.Sprintf("class '%s' has no attribute '%s'", o.Name, name),
			Line: line,
		}

	case *Dict:
		if v, ok := o.GetStr(name); ok {
			return v, nil
		}

		return nil, &Fault{
			Msg:  fmt.Sprintf("'dict' object has no attribute '%s'", name),
			Line: line,
		}
	}

	return nil, &Fault{
		Msg:  fmt.Sprintf("'%s' object has no attribute '%s'", obj.Type(), name),
		Line: line,
	}
}

func index(obj, idx Value, line int) (Value, error) {
	switch o := obj.(type) {
	case *List:
		i, err := listIndex(o, idx, line)
		if err != nil {
			return nil, err
		}

		return o.Elems[i], nil

	case *Dict:
		if _, err := hashKey(idx); err != nil {
			return nil, asFault(err, line)
		}

		if v, ok := o.Get(idx); ok {
			return v, nil
		}

		return Null{}, nil
	}

	return nil, &Fault{
		Msg:  fmt.Sprintf("'%s' object is not subscriptable", obj.Type()),
		Line: line,
	}
}

func setIndex(obj, idx, v Value, line int) error {
	switch o := obj.(type) {
	case *List:
		i, err := listIndex(o, idx, line)
		if err != nil {
			return err
		}

		o.Elems[i] = v

		return nil

	case *Dict:
		if err := o.Set(idx, v); err != nil {
			return asFault(err, line)
		}

		return nil
	}

	return &Fault{
		Msg:  fmt.Sprintf("'%s' object does not support item assignment", obj.Type()),
		Line: line,
	}
}

// listIndex validates idx against l, wrapping negative indices.
func listIndex(l *List, idx Value, line int) (int, error) {
	n, ok := idx.(Int)
	if !ok {
		return 0, &Fault{
			Msg:  fmt.Sprintf("list indices must be integers, not '%s'", idx.Type()),
			Line: line,
		}
	}

	i := int(n)
	if i < 0 {
		i += len(l.Elems)
	}

	if i < 0 || i >= len(l.Elems) {
		return 0, &Fault{Msg: "list index out of range", Line: line}
	}

	return i, nil
}

func (in *Interpreter) slice(x *ast.Slice, env *Env) (Value, error) {
	obj, err := in.eval(x.X, env)
	if err != nil {
		return nil, err
	}

	l, ok := obj.(*List)
	if !ok {
		return nil, &Fault{
			Msg:  fmt.Sprintf("'%s' object cannot be sliced", obj.Type()),
			Line: x.Line,
		}
	}

	n := len(l.Elems)
	lo, hi := 0, n

	bound := func(e ast.Expr, def int) (int, error) {
		if e == nil {
			return def, nil
		}

		v, err := in.eval(e, env)
		if err != nil {
			return 0, err
		}

		i, ok := v.(Int)
		if !ok {
			return 0, &Fault{
				Msg:  fmt.Sprintf("slice indices must be integers, not '%s'", v.Type()),
				Line: x.Line,
			}
		}

		b := int(i)
		if b < 0 {
			b += n
		}

		return min(max(b, 0), n), nil
	}

	if lo, err = bound(x.Lo, lo); err != nil {
		return nil, err
	}

	if hi, err = bound(x.Hi, hi); err != nil {
		return nil, err
	}

	if hi < lo {
		hi = lo
	}

	return NewList(append([]Value(nil), l.Elems[lo:hi]...)...), nil
}
