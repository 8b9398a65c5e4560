// Package ast declares the syntax tree produced by the shibo parser.
//
// The node set is closed: every statement implements [Stmt] and every
// expression implements [Expr] through unexported marker methods, so a type
// switch over either interface is exhaustive within this package's types.
// Trees are built once by the parser and never mutated afterwards.
package ast

// Node is implemented by every syntax tree node.
type Node interface {
	// Pos returns the 1-based source line the node starts on, or 0 when the
	// node was constructed programmatically.
	Pos() int
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// At records the source line of a node.
type At struct{ Line int }

// Pos implements [Node].
func (a At) Pos() int { return a.Line }

// Program is the root of a parsed source unit.
type Program struct {
	Body []Stmt
}

// Pos implements [Node].
func (p *Program) Pos() int {
	if len(p.Body) == 0 {
		return 0
	}

	return p.Body[0].Pos()
}

type (
	// Import merges every binding of a module into the current environment.
	Import struct {
		At
		Module string
	}

	// FromImport merges selected bindings (or all, when All is set).
	FromImport struct {
		At
		Module string
		Names  []string
		All    bool
	}

	// ClassDef declares a class with an optional base and interface list.
	ClassDef struct {
		At
		Name       string
		Base       string
		Interfaces []string
		Body       []Stmt
	}

	// InterfaceDef declares a named set of method signatures.
	InterfaceDef struct {
		At
		Name    string
		Methods []Signature
	}

	// VarDecl binds Name to the value of an expression.
	VarDecl struct {
		At
		Name  string
		Value Expr
	}

	// FuncDef declares a function, or a method when nested in a class body.
	FuncDef struct {
		At
		Name   string
		Params []string
		Body   []Stmt
	}

	// Try runs Body and, on failure, binds the message to Var and runs Catch.
	Try struct {
		At
		Body  []Stmt
		Var   string
		Catch []Stmt
	}

	If struct {
		At
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	While struct {
		At
		Cond Expr
		Body []Stmt
	}

	DoWhile struct {
		At
		Body []Stmt
		Cond Expr
	}

	// For is the three-clause loop. Init and Post may be nil, as may Cond.
	For struct {
		At
		Init Stmt
		Cond Expr
		Post Stmt
		Body []Stmt
	}

	ForIn struct {
		At
		Var  string
		Iter Expr
		Body []Stmt
	}

	Break    struct{ At }
	Continue struct{ At }

	Print struct {
		At
		Value Expr
	}

	// Return exits the enclosing function. Value is nil for a bare return.
	Return struct {
		At
		Value Expr
	}

	ExprStmt struct {
		At
		X Expr
	}

	// Assign stores Value into Target, which is an [Identifier], [Index] or
	// [Attribute]. Compound assignments are desugared by the parser.
	Assign struct {
		At
		Target Expr
		Value  Expr
	}
)

// Signature is one method declared by an interface.
type Signature struct {
	Name   string
	Params []string
}

type (
	BinaryOp struct {
		At
		Op          string
		Left, Right Expr
	}

	UnaryOp struct {
		At
		Op string
		X  Expr
	}

	PrefixOp struct {
		At
		Op string
		X  Expr
	}

	PostfixOp struct {
		At
		Op string
		X  Expr
	}

	Ternary struct {
		At
		Cond, Then, Else Expr
	}

	Call struct {
		At
		Callee Expr
		Args   []Expr
	}

	ListLit struct {
		At
		Elems []Expr
	}

	DictLit struct {
		At
		Entries []Entry
	}

	SetLit struct {
		At
		Elems []Expr
	}

	Identifier struct {
		At
		Name string
	}

	// NumberLit holds an integer literal, or a float when IsFloat is set.
	NumberLit struct {
		At
		Lexeme  string
		Int     int64
		Float   float64
		IsFloat bool
	}

	StringLit struct {
		At
		Value string
	}

	BoolLit struct {
		At
		Value bool
	}

	NullLit struct{ At }

	Index struct {
		At
		X     Expr
		Index Expr
	}

	// Slice is X[Lo:Hi]; either bound may be nil.
	Slice struct {
		At
		X      Expr
		Lo, Hi Expr
	}

	Attribute struct {
		At
		X    Expr
		Name string
	}
)

// Entry is one key/value pair of a [DictLit].
type Entry struct {
	Key, Value Expr
}

func (*Import) stmtNode()       {}
func (*FromImport) stmtNode()   {}
func (*ClassDef) stmtNode()     {}
func (*InterfaceDef) stmtNode() {}
func (*VarDecl) stmtNode()      {}
func (*FuncDef) stmtNode()      {}
func (*Try) stmtNode()          {}
func (*If) stmtNode()           {}
func (*While) stmtNode()        {}
func (*DoWhile) stmtNode()      {}
func (*For) stmtNode()          {}
func (*ForIn) stmtNode()        {}
func (*Break) stmtNode()        {}
func (*Continue) stmtNode()     {}
func (*Print) stmtNode()        {}
func (*Return) stmtNode()       {}
func (*ExprStmt) stmtNode()     {}
func (*Assign) stmtNode()       {}

func (*BinaryOp) exprNode()   {}
func (*UnaryOp) exprNode()    {}
func (*PrefixOp) exprNode()   {}
func (*PostfixOp) exprNode()  {}
func (*Ternary) exprNode()    {}
func (*Call) exprNode()       {}
func (*ListLit) exprNode()    {}
func (*DictLit) exprNode()    {}
func (*SetLit) exprNode()     {}
func (*Identifier) exprNode() {}
func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NullLit) exprNode()    {}
func (*Index) exprNode()      {}
func (*Slice) exprNode()      {}
func (*Attribute) exprNode()  {}

// IsLValue reports whether e may appear on the left of an assignment or as
// the operand of ++ and --.
func IsLValue(e Expr) bool {
	switch e.(type) {
	case *Identifier, *Index, *Attribute:
		return true
	}

	return false
}
