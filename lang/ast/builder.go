package ast

import (
	"math"
	"strconv"
)

// Builder constructs syntax trees without parsing source text. Nodes it
// creates carry no source position.
//
// Example:
//
//	var b ast.Builder
//	prog := b.Program(
//		b.Var("log_level", b.String("debug")),
//		b.Var("lang_max_depth", b.Int(500)),
//	)
type Builder struct{}

// Program wraps statements into a [Program].
func (Builder) Program(body ...Stmt) *Program { return &Program{Body: body} }

// Var creates a [VarDecl].
func (Builder) Var(name string, value Expr) *VarDecl {
	return &VarDecl{Name: name, Value: value}
}

// Ident creates an [Identifier].
func (Builder) Ident(name string) *Identifier { return &Identifier{Name: name} }

// String creates a [StringLit].
func (Builder) String(s string) *StringLit { return &StringLit{Value: s} }

// Bool creates a [BoolLit].
func (Builder) Bool(v bool) *BoolLit { return &BoolLit{Value: v} }

// Null creates a [NullLit].
func (Builder) Null() *NullLit { return &NullLit{} }

// Int creates an integer [NumberLit].
func (Builder) Int(n int64) *NumberLit {
	return &NumberLit{Lexeme: strconv.FormatInt(n, 10), Int: n}
}

// Float creates a float [NumberLit]. The lexeme always carries a decimal
// point so that it lexes back as a float.
func (Builder) Float(f float64) *NumberLit {
	return &NumberLit{Lexeme: floatLexeme(f), Float: f, IsFloat: true}
}

// List creates a [ListLit].
func (Builder) List(elems ...Expr) *ListLit { return &ListLit{Elems: elems} }

// Dict creates a [DictLit] from alternating key and value expressions. A
// trailing key without a value is paired with null.
func (b Builder) Dict(kv ...Expr) *DictLit {
	d := &DictLit{Entries: make([]Entry, 0, (len(kv)+1)/2)}

	for i := 0; i < len(kv); i += 2 {
		e := Entry{Key: kv[i], Value: b.Null()}
		if i+1 < len(kv) {
			e.Value = kv[i+1]
		}

		d.Entries = append(d.Entries, e)
	}

	return d
}

// Call creates a [Call] of callee with args.
func (Builder) Call(callee Expr, args ...Expr) *Call {
	return &Call{Callee: callee, Args: args}
}

// Binary creates a [BinaryOp].
func (Builder) Binary(op string, left, right Expr) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

func floatLexeme(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "0.0"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i := range len(s) {
		if s[i] == '.' {
			return s
		}
	}

	return s + ".0"
}
