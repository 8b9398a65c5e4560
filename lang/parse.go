package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/shibo/lang/ast"
	"github.com/ardnew/shibo/lang/token"
)

// ParseString tokenizes and parses source in one step.
func ParseString(source string) (*ast.Program, error) {
	toks, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	return Parse(toks)
}

// ParseReader reads all of r and parses it. Results are cached by content
// hash, so parsing the same source twice returns the same tree.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*ast.Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg := makeConfig(opts...)
	cfg.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
	)

	return parseCached(ctx, cfg.logger, string(data))
}

// Parse builds a [ast.Program] from a token stream.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := &parser{toks: tokens}

	return p.program()
}

var assignOps = []string{
	"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", ">>>=",
}

// binaryLevels lists binary operators from loosest to tightest binding.
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", ">", "<=", ">=", "instanceof"},
	{"<<", ">>", ">>>"},
	{"+", "-"},
	{"*", "/", "//", "%"},
}

var spelling = map[token.Kind]string{
	token.LParen:     `"("`,
	token.RParen:     `")"`,
	token.LBrace:     `"{"`,
	token.RBrace:     `"}"`,
	token.LBracket:   `"["`,
	token.RBracket:   `"]"`,
	token.Comma:      `","`,
	token.Semi:       `";"`,
	token.Identifier: "identifier",
	token.Import:     `"import"`,
	token.Catch:      `"catch"`,
	token.While:      `"while"`,
	token.In:         `"in"`,
	token.Func:       `"func"`,
}

type parser struct {
	toks []token.Token
	pos  int
	// nest counts open brackets inside expressions and statement headers.
	// Newlines are insignificant while it is positive.
	nest int
}

func (p *parser) skipNewlines() {
	if p.nest == 0 {
		return
	}

	for p.pos < len(p.toks) && p.toks[p.pos].Kind == token.Newline {
		p.pos++
	}
}

func (p *parser) eof() bool {
	p.skipNewlines()

	return p.pos >= len(p.toks)
}

func (p *parser) peek() token.Token {
	if p.eof() {
		return token.Token{Kind: token.Illegal}
	}

	return p.toks[p.pos]
}

// peekAt returns the token n positions ahead without skipping newlines.
func (p *parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return token.Token{Kind: token.Illegal}
	}

	return p.toks[p.pos+n]
}

func (p *parser) line() int {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Line
	}

	if n := len(p.toks); n > 0 {
		return p.toks[n-1].Line
	}

	return 1
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}

	return t
}

func (p *parser) at(k token.Kind, lexeme ...string) bool {
	return !p.eof() && p.peek().Is(k, lexeme...)
}

func (p *parser) enter() { p.nest++ }
func (p *parser) leave() { p.nest-- }

// fail builds a ParseError describing the current token.
func (p *parser) fail(expected string) *ParseError {
	if p.eof() {
		return &ParseError{
			Line:     p.line(),
			Expected: expected,
			Found:    "end of input",
			EOF:      true,
		}
	}

	t := p.peek()
	found := strconv.Quote(t.Lexeme)

	if t.Kind == token.Newline {
		found = "newline"
	}

	return &ParseError{Line: t.Line, Expected: expected, Found: found}
}

func (p *parser) expect(k token.Kind, lexeme ...string) (token.Token, error) {
	if p.at(k, lexeme...) {
		return p.advance(), nil
	}

	want, ok := spelling[k]

	switch {
	case len(lexeme) > 0:
		want = strconv.Quote(lexeme[0])
	case !ok:
		want = strings.ToLower(k.String())
	}

	return token.Token{}, p.fail(want)
}

func (p *parser) ident() (string, error) {
	t, err := p.expect(token.Identifier)

	return t.Lexeme, err
}

func (p *parser) separator() bool {
	return p.at(token.Newline) || p.at(token.Semi)
}

func (p *parser) skipSeparators() {
	for p.separator() {
		p.advance()
	}
}

func (p *parser) program() (*ast.Program, error) {
	prog := &ast.Program{}

	for {
		p.skipSeparators()

		if p.eof() {
			return prog, nil
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, stmt)

		if err := p.terminator(stmt); err != nil {
			return nil, err
		}
	}
}

// terminator consumes the separator following a simple statement. It is
// optional before a closing brace and at end of input. Statements that end
// with a block need none.
func (p *parser) terminator(s ast.Stmt) error {
	switch s.(type) {
	case *ast.ClassDef, *ast.InterfaceDef, *ast.FuncDef, *ast.Try,
		*ast.If, *ast.While, *ast.For, *ast.ForIn:
		return nil
	}

	switch {
	case p.eof(), p.at(token.RBrace):
		return nil
	case p.separator():
		p.advance()

		return nil
	}

	return p.fail(`";" or newline`)
}

func (p *parser) block() ([]ast.Stmt, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	var body []ast.Stmt

	for {
		p.skipSeparators()

		if p.at(token.RBrace) {
			p.advance()

			return body, nil
		}

		if p.eof() {
			return nil, p.fail(`"}"`)
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)

		if err := p.terminator(stmt); err != nil {
			return nil, err
		}
	}
}

func (p *parser) statement() (ast.Stmt, error) {
	t := p.peek()
	at := ast.At{Line: t.Line}

	switch t.Kind {
	case token.Import:
		p.advance()

		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		return &ast.Import{At: at, Module: name}, nil

	case token.From:
		return p.fromImport(at)

	case token.Class:
		return p.classDef(at)

	case token.Interface:
		return p.interfaceDef(at)

	case token.Var:
		return p.varDecl(at)

	case token.Func:
		return p.funcDef(at)

	case token.Try:
		return p.tryStmt(at)

	case token.If:
		return p.ifStmt(at)

	case token.While:
		p.advance()

		cond, err := p.condition()
		if err != nil {
			return nil, err
		}

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		return &ast.While{At: at, Cond: cond, Body: body}, nil

	case token.Do:
		p.advance()

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.While); err != nil {
			return nil, err
		}

		cond, err := p.condition()
		if err != nil {
			return nil, err
		}

		return &ast.DoWhile{At: at, Body: body, Cond: cond}, nil

	case token.For:
		return p.forStmt(at)

	case token.Break:
		p.advance()

		return &ast.Break{At: at}, nil

	case token.Continue:
		p.advance()

		return &ast.Continue{At: at}, nil

	case token.Print:
		p.advance()

		value, err := p.condition()
		if err != nil {
			return nil, err
		}

		return &ast.Print{At: at, Value: value}, nil

	case token.Return:
		p.advance()

		if p.eof() || p.separator() || p.at(token.RBrace) {
			return &ast.Return{At: at}, nil
		}

		value, err := p.expression()
		if err != nil {
			return nil, err
		}

		return &ast.Return{At: at, Value: value}, nil
	}

	return p.simple()
}

// simple parses an expression statement or an assignment.
func (p *parser) simple() (ast.Stmt, error) {
	at := ast.At{Line: p.peek().Line}

	x, err := p.expression()
	if err != nil {
		return nil, err
	}

	if !p.at(token.Operator, assignOps...) {
		return &ast.ExprStmt{At: at, X: x}, nil
	}

	op := p.advance()

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if !ast.IsLValue(x) {
		return nil, &ParseError{Line: op.Line, Msg: "invalid assignment target"}
	}

	if op.Lexeme != "=" {
		value = &ast.BinaryOp{
			At:    ast.At{Line: op.Line},
			Op:    strings.TrimSuffix(op.Lexeme, "="),
			Left:  x,
			Right: value,
		}
	}

	return &ast.Assign{At: at, Target: x, Value: value}, nil
}

// condition parses a parenthesized expression.
func (p *parser) condition() (ast.Expr, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	p.enter()
	defer p.leave()

	x, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *parser) fromImport(at ast.At) (ast.Stmt, error) {
	p.advance()

	module, err := p.ident()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Import); err != nil {
		return nil, err
	}

	stmt := &ast.FromImport{At: at, Module: module}

	if p.at(token.Operator, "*") {
		p.advance()

		stmt.All = true

		return stmt, nil
	}

	for {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		stmt.Names = append(stmt.Names, name)

		if !p.at(token.Comma) {
			return stmt, nil
		}

		p.advance()
	}
}

func (p *parser) classDef(at ast.At) (ast.Stmt, error) {
	p.advance()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	def := &ast.ClassDef{At: at, Name: name}

	if p.at(token.LParen) {
		p.advance()

		if def.Base, err = p.ident(); err != nil {
			return nil, err
		}

		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
	}

	if p.at(token.Implements) {
		p.advance()

		if def.Interfaces, err = p.names(); err != nil {
			return nil, err
		}
	}

	if def.Body, err = p.block(); err != nil {
		return nil, err
	}

	return def, nil
}

// names parses a comma-separated list of one or more identifiers.
func (p *parser) names() ([]string, error) {
	var out []string

	for {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		out = append(out, name)

		if !p.at(token.Comma) {
			return out, nil
		}

		p.advance()
	}
}

func (p *parser) interfaceDef(at ast.At) (ast.Stmt, error) {
	p.advance()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	def := &ast.InterfaceDef{At: at, Name: name}

	for {
		p.skipSeparators()

		if p.at(token.RBrace) {
			p.advance()

			return def, nil
		}

		if _, err := p.expect(token.Func); err != nil {
			return nil, err
		}

		var sig ast.Signature

		if sig.Name, err = p.ident(); err != nil {
			return nil, err
		}

		if sig.Params, err = p.params(); err != nil {
			return nil, err
		}

		def.Methods = append(def.Methods, sig)
	}
}

func (p *parser) varDecl(at ast.At) (*ast.VarDecl, error) {
	p.advance()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Operator, "="); err != nil {
		return nil, err
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &ast.VarDecl{At: at, Name: name, Value: value}, nil
}

// params parses a parenthesized, possibly empty, identifier list.
func (p *parser) params() ([]string, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	p.enter()
	defer p.leave()

	var out []string

	for !p.at(token.RParen) {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		out = append(out, name)

		if !p.at(token.Comma) {
			break
		}

		p.advance()
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	return out, nil
}

func (p *parser) funcDef(at ast.At) (ast.Stmt, error) {
	p.advance()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	params, err := p.params()
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDef{At: at, Name: name, Params: params, Body: body}, nil
}

func (p *parser) tryStmt(at ast.At) (ast.Stmt, error) {
	p.advance()

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Catch); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	catch, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.Try{At: at, Body: body, Var: name, Catch: catch}, nil
}

func (p *parser) ifStmt(at ast.At) (ast.Stmt, error) {
	p.advance()

	cond, err := p.condition()
	if err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{At: at, Cond: cond, Then: then}

	if !p.at(token.Else) {
		return stmt, nil
	}

	p.advance()

	if p.at(token.If) {
		elif, err := p.ifStmt(ast.At{Line: p.peek().Line})
		if err != nil {
			return nil, err
		}

		stmt.Else = []ast.Stmt{elif}

		return stmt, nil
	}

	if stmt.Else, err = p.block(); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *parser) forStmt(at ast.At) (ast.Stmt, error) {
	p.advance()

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	p.enter()

	if p.at(token.Identifier) && p.peekAt(1).Kind == token.In {
		name := p.advance().Lexeme
		p.advance()

		iter, err := p.expression()
		if err == nil {
			_, err = p.expect(token.RParen)
		}

		p.leave()

		if err != nil {
			return nil, err
		}

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		return &ast.ForIn{At: at, Var: name, Iter: iter, Body: body}, nil
	}

	stmt, err := p.forClauses(at)

	p.leave()

	if err != nil {
		return nil, err
	}

	if stmt.Body, err = p.block(); err != nil {
		return nil, err
	}

	return stmt, nil
}

// forClauses parses "init; cond; post)" of a three-clause loop.
func (p *parser) forClauses(at ast.At) (*ast.For, error) {
	stmt := &ast.For{At: at}

	var err error

	switch {
	case p.at(token.Semi):
	case p.at(token.Var):
		stmt.Init, err = p.varDecl(ast.At{Line: p.peek().Line})
	default:
		stmt.Init, err = p.simple()
	}

	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}

	if !p.at(token.Semi) {
		if stmt.Cond, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}

	if !p.at(token.RParen) {
		if stmt.Post, err = p.simple(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *parser) expression() (ast.Expr, error) {
	cond, err := p.binary(0)
	if err != nil {
		return nil, err
	}

	if !p.at(token.Operator, "?") {
		return cond, nil
	}

	q := p.advance()

	then, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Operator, ":"); err != nil {
		return nil, err
	}

	els, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &ast.Ternary{At: ast.At{Line: q.Line}, Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) binaryOp(level int) (token.Token, bool) {
	if p.eof() {
		return token.Token{}, false
	}

	t := p.peek()

	for _, op := range binaryLevels[level] {
		if op == "instanceof" && t.Kind == token.Instanceof {
			return t, true
		}

		if t.Is(token.Operator, op) {
			return t, true
		}
	}

	return token.Token{}, false
}

func (p *parser) binary(level int) (ast.Expr, error) {
	if level == len(binaryLevels) {
		return p.unary()
	}

	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.binaryOp(level)
		if !ok {
			return left, nil
		}

		p.advance()

		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &ast.BinaryOp{
			At:    ast.At{Line: op.Line},
			Op:    op.Lexeme,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) unary() (ast.Expr, error) {
	if !p.at(token.Operator, "-", "+", "!", "~", "++", "--") {
		return p.postfix()
	}

	op := p.advance()

	x, err := p.unary()
	if err != nil {
		return nil, err
	}

	at := ast.At{Line: op.Line}

	if op.Lexeme == "++" || op.Lexeme == "--" {
		return &ast.PrefixOp{At: at, Op: op.Lexeme, X: x}, nil
	}

	return &ast.UnaryOp{At: at, Op: op.Lexeme, X: x}, nil
}

// postfix applies ++, --, attribute access, calls and indexing to a primary
// expression in the order they appear.
func (p *parser) postfix() (ast.Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}

	for !p.eof() {
		t := p.peek()
		at := ast.At{Line: t.Line}

		switch {
		case t.Is(token.Operator, "++", "--"):
			p.advance()

			x = &ast.PostfixOp{At: at, Op: t.Lexeme, X: x}

		case t.Kind == token.Dot:
			p.advance()

			name, err := p.ident()
			if err != nil {
				return nil, err
			}

			x = &ast.Attribute{At: at, X: x, Name: name}

		case t.Kind == token.LParen:
			p.advance()

			args, err := p.exprList(token.RParen)
			if err != nil {
				return nil, err
			}

			x = &ast.Call{At: at, Callee: x, Args: args}

		case t.Kind == token.LBracket:
			p.advance()

			if x, err = p.subscript(at, x); err != nil {
				return nil, err
			}

		default:
			return x, nil
		}
	}

	return x, nil
}

func isColon(t token.Token) bool {
	return t.Is(token.Operator, ":") || t.Kind == token.Colon
}

// subscript parses the remainder of x[...] after the opening bracket.
func (p *parser) subscript(at ast.At, x ast.Expr) (ast.Expr, error) {
	p.enter()
	defer p.leave()

	var (
		lo, hi ast.Expr
		err    error
	)

	if !isColon(p.peek()) {
		if lo, err = p.expression(); err != nil {
			return nil, err
		}

		if !isColon(p.peek()) {
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}

			return &ast.Index{At: at, X: x, Index: lo}, nil
		}
	}

	p.advance() // ':'

	if !p.at(token.RBracket) {
		if hi, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}

	return &ast.Slice{At: at, X: x, Lo: lo, Hi: hi}, nil
}

// exprList parses comma-separated expressions up to and including the
// closing token. A trailing comma is accepted.
func (p *parser) exprList(closing token.Kind) ([]ast.Expr, error) {
	p.enter()
	defer p.leave()

	var out []ast.Expr

	for !p.at(closing) {
		x, err := p.expression()
		if err != nil {
			return nil, err
		}

		out = append(out, x)

		if !p.at(token.Comma) {
			break
		}

		p.advance()
	}

	if _, err := p.expect(closing); err != nil {
		return nil, err
	}

	return out, nil
}

func (p *parser) primary() (ast.Expr, error) {
	if p.eof() {
		return nil, p.fail("expression")
	}

	t := p.peek()
	at := ast.At{Line: t.Line}

	switch t.Kind {
	case token.Identifier:
		p.advance()

		return &ast.Identifier{At: at, Name: t.Lexeme}, nil

	case token.Number:
		p.advance()

		return numberLit(t)

	case token.String:
		p.advance()

		return &ast.StringLit{At: at, Value: t.Lexeme[1 : len(t.Lexeme)-1]}, nil

	case token.True, token.False:
		p.advance()

		return &ast.BoolLit{At: at, Value: t.Kind == token.True}, nil

	case token.Null:
		p.advance()

		return &ast.NullLit{At: at}, nil

	case token.LParen:
		p.advance()
		p.enter()
		defer p.leave()

		x, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}

		return x, nil

	case token.LBracket:
		p.advance()

		elems, err := p.exprList(token.RBracket)
		if err != nil {
			return nil, err
		}

		return &ast.ListLit{At: at, Elems: elems}, nil

	case token.LBrace:
		p.advance()

		return p.dictLit(at)

	case token.Set:
		p.advance()

		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}

		elems, err := p.exprList(token.RParen)
		if err != nil {
			return nil, err
		}

		return &ast.SetLit{At: at, Elems: elems}, nil
	}

	return nil, p.fail("expression")
}

func (p *parser) dictLit(at ast.At) (ast.Expr, error) {
	p.enter()
	defer p.leave()

	d := &ast.DictLit{At: at}

	for !p.at(token.RBrace) {
		key, err := p.expression()
		if err != nil {
			return nil, err
		}

		if !isColon(p.peek()) || p.eof() {
			return nil, p.fail(`":"`)
		}

		p.advance()

		value, err := p.expression()
		if err != nil {
			return nil, err
		}

		d.Entries = append(d.Entries, ast.Entry{Key: key, Value: value})

		if !p.at(token.Comma) {
			break
		}

		p.advance()
	}

	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}

	return d, nil
}

func numberLit(t token.Token) (ast.Expr, error) {
	at := ast.At{Line: t.Line}

	if strings.ContainsRune(t.Lexeme, '.') {
		f, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, &ParseError{Line: t.Line, Msg: "invalid number " + strconv.Quote(t.Lexeme)}
		}

		return &ast.NumberLit{At: at, Lexeme: t.Lexeme, Float: f, IsFloat: true}, nil
	}

	n, err := strconv.ParseInt(t.Lexeme, 10, 64)
	if err != nil {
		return nil, &ParseError{Line: t.Line, Msg: "integer literal out of range: " + t.Lexeme}
	}

	return &ast.NumberLit{At: at, Lexeme: t.Lexeme, Int: n}, nil
}
