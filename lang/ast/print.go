package ast

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrUnprintable is returned when a tree holds a value that has no source
// spelling, such as a string literal containing a double quote.
var ErrUnprintable = errors.New("node has no source form")

// Binding strength of each expression form, lowest first.
const (
	precTernary = iota + 1
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

var binaryPrec = map[string]int{
	"||": precOr,
	"&&": precAnd,
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"==": precEquality, "!=": precEquality,
	"<": precRelational, ">": precRelational,
	"<=": precRelational, ">=": precRelational,
	"instanceof": precRelational,
	"<<":         precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative,
	"//": precMultiplicative, "%": precMultiplicative,
}

// Precedence returns the binding strength of a binary operator, or 0 when op
// is not a binary operator.
func Precedence(op string) int { return binaryPrec[op] }

func precOf(e Expr) int {
	switch e := e.(type) {
	case *Ternary:
		return precTernary
	case *BinaryOp:
		return binaryPrec[e.Op]
	case *UnaryOp, *PrefixOp:
		return precUnary
	case *PostfixOp, *Call, *Index, *Slice, *Attribute:
		return precPostfix
	default:
		return precPrimary
	}
}

// Fprint writes the source form of n to w, indenting nested blocks by indent
// spaces per level. Re-parsing the output yields a tree equal to n under
// [Equal].
func Fprint(w io.Writer, n Node, indent int) error {
	p := printer{indent: strings.Repeat(" ", max(indent, 0))}

	switch n := n.(type) {
	case *Program:
		p.block(n.Body, 0)
	case Stmt:
		p.stmt(n, 0)
	case Expr:
		p.expr(n)
	}

	if p.err != nil {
		return p.err
	}

	_, err := io.WriteString(w, p.String())

	return err
}

// Format returns the source form of n with two-space indentation.
func Format(n Node) (string, error) {
	var sb strings.Builder
	if err := Fprint(&sb, n, 2); err != nil {
		return "", err
	}

	return sb.String(), nil
}

type printer struct {
	strings.Builder

	indent string
	err    error
}

func (p *printer) pad(depth int) {
	for range depth {
		p.WriteString(p.indent)
	}
}

func (p *printer) block(body []Stmt, depth int) {
	for _, s := range body {
		p.pad(depth)
		p.stmt(s, depth)
		p.WriteByte('\n')
	}
}

func (p *printer) braces(body []Stmt, depth int) {
	if len(body) == 0 {
		p.WriteString("{}")

		return
	}

	p.WriteString("{\n")
	p.block(body, depth+1)
	p.pad(depth)
	p.WriteByte('}')
}

func (p *printer) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *Import:
		p.WriteString("import " + s.Module)

	case *FromImport:
		p.WriteString("from " + s.Module + " import ")

		if s.All {
			p.WriteByte('*')
		} else {
			p.WriteString(strings.Join(s.Names, ", "))
		}

	case *ClassDef:
		p.WriteString("class " + s.Name)

		if s.Base != "" {
			p.WriteString("(" + s.Base + ")")
		}

		if len(s.Interfaces) > 0 {
			p.WriteString(" implements " + strings.Join(s.Interfaces, ", "))
		}

		p.WriteByte(' ')
		p.braces(s.Body, depth)

	case *InterfaceDef:
		p.WriteString("interface " + s.Name + " ")

		if len(s.Methods) == 0 {
			p.WriteString("{}")

			break
		}

		p.WriteString("{\n")

		for _, m := range s.Methods {
			p.pad(depth + 1)
			p.WriteString("func " + m.Name + "(" + strings.Join(m.Params, ", ") + ")\n")
		}

		p.pad(depth)
		p.WriteByte('}')

	case *VarDecl:
		p.WriteString("var " + s.Name + " = ")
		p.expr(s.Value)

	case *FuncDef:
		p.WriteString("func " + s.Name + "(" + strings.Join(s.Params, ", ") + ") ")
		p.braces(s.Body, depth)

	case *Try:
		p.WriteString("try ")
		p.braces(s.Body, depth)
		p.WriteString(" catch (" + s.Var + ") ")
		p.braces(s.Catch, depth)

	case *If:
		p.WriteString("if (")
		p.expr(s.Cond)
		p.WriteString(") ")
		p.braces(s.Then, depth)

		if len(s.Else) == 0 {
			break
		}

		p.WriteString(" else ")

		if elif, ok := s.Else[0].(*If); ok && len(s.Else) == 1 {
			p.stmt(elif, depth)
		} else {
			p.braces(s.Else, depth)
		}

	case *While:
		p.WriteString("while (")
		p.expr(s.Cond)
		p.WriteString(") ")
		p.braces(s.Body, depth)

	case *DoWhile:
		p.WriteString("do ")
		p.braces(s.Body, depth)
		p.WriteString(" while (")
		p.expr(s.Cond)
		p.WriteByte(')')

	case *For:
		p.WriteString("for (")

		if s.Init != nil {
			p.stmt(s.Init, depth)
		}

		p.WriteString("; ")

		if s.Cond != nil {
			p.expr(s.Cond)
		}

		p.WriteString("; ")

		if s.Post != nil {
			p.stmt(s.Post, depth)
		}

		p.WriteString(") ")
		p.braces(s.Body, depth)

	case *ForIn:
		p.WriteString("for (" + s.Var + " in ")
		p.expr(s.Iter)
		p.WriteString(") ")
		p.braces(s.Body, depth)

	case *Break:
		p.WriteString("break")

	case *Continue:
		p.WriteString("continue")

	case *Print:
		p.WriteString("print(")
		p.expr(s.Value)
		p.WriteByte(')')

	case *Return:
		p.WriteString("return")

		if s.Value != nil {
			p.WriteByte(' ')
			p.expr(s.Value)
		}

	case *ExprStmt:
		p.expr(s.X)

	case *Assign:
		p.expr(s.Target)
		p.WriteString(" = ")
		p.expr(s.Value)
	}
}

// operand prints e, parenthesized when it binds looser than min.
func (p *printer) operand(e Expr, minPrec int) {
	if precOf(e) < minPrec {
		p.WriteByte('(')
		p.expr(e)
		p.WriteByte(')')

		return
	}

	p.expr(e)
}

// receiver prints the left side of a postfix chain. Number literals are
// wrapped so that "1.x" does not lex as the float "1.".
func (p *printer) receiver(e Expr) {
	if _, ok := e.(*NumberLit); ok {
		p.WriteByte('(')
		p.expr(e)
		p.WriteByte(')')

		return
	}

	p.operand(e, precPostfix)
}

func (p *printer) list(elems []Expr) {
	for i, e := range elems {
		if i > 0 {
			p.WriteString(", ")
		}

		p.expr(e)
	}
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case *Ternary:
		p.operand(e.Cond, precOr)
		p.WriteString(" ? ")
		p.expr(e.Then)
		p.WriteString(" : ")
		p.expr(e.Else)

	case *BinaryOp:
		prec := binaryPrec[e.Op]
		p.operand(e.Left, prec)
		p.WriteString(" " + e.Op + " ")
		p.operand(e.Right, prec+1)

	case *UnaryOp:
		p.unary(e.Op, e.X)

	case *PrefixOp:
		p.unary(e.Op, e.X)

	case *PostfixOp:
		p.receiver(e.X)
		p.WriteString(e.Op)

	case *Call:
		p.receiver(e.Callee)
		p.WriteByte('(')
		p.list(e.Args)
		p.WriteByte(')')

	case *Index:
		p.receiver(e.X)
		p.WriteByte('[')
		p.expr(e.Index)
		p.WriteByte(']')

	case *Slice:
		p.receiver(e.X)
		p.WriteByte('[')

		if e.Lo != nil {
			p.expr(e.Lo)
		}

		p.WriteByte(':')

		if e.Hi != nil {
			p.expr(e.Hi)
		}

		p.WriteByte(']')

	case *Attribute:
		p.receiver(e.X)
		p.WriteString("." + e.Name)

	case *ListLit:
		p.WriteByte('[')
		p.list(e.Elems)
		p.WriteByte(']')

	case *DictLit:
		p.WriteByte('{')

		for i, ent := range e.Entries {
			if i > 0 {
				p.WriteString(", ")
			}

			p.expr(ent.Key)
			p.WriteString(": ")
			p.expr(ent.Value)
		}

		p.WriteByte('}')

	case *SetLit:
		p.WriteString("set(")
		p.list(e.Elems)
		p.WriteByte(')')

	case *Identifier:
		p.WriteString(e.Name)

	case *NumberLit:
		switch {
		case e.Lexeme != "":
			p.WriteString(e.Lexeme)
		case e.IsFloat:
			p.WriteString(floatLexeme(e.Float))
		default:
			p.WriteString(strconv.FormatInt(e.Int, 10))
		}

	case *StringLit:
		if strings.ContainsRune(e.Value, '"') {
			p.err = errors.Join(p.err, ErrUnprintable)
		}

		p.WriteString(`"` + e.Value + `"`)

	case *BoolLit:
		p.WriteString(strconv.FormatBool(e.Value))

	case *NullLit:
		p.WriteString("null")
	}
}

func (p *printer) unary(op string, x Expr) {
	p.WriteString(op)

	mark := p.Len()
	p.operand(x, precUnary)

	// "- -x" must not collapse into the "--" operator.
	if s := p.String(); p.Len() > mark && (s[mark] == '+' || s[mark] == '-') {
		tail := s[mark:]
		p.Reset()
		p.WriteString(s[:mark] + " " + tail)
	}
}
