// Package token defines the lexical tokens of the shibo language.
package token

import "strconv"

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	Illegal Kind = iota

	// Keywords.
	Import
	From
	Class
	Interface
	Implements
	Var
	Func
	If
	Else
	While
	Do
	For
	In
	Break
	Continue
	Print
	Return
	Try
	Catch
	True
	False
	Null
	Set
	Instanceof

	// Literals.
	Number
	String
	Identifier

	// Operator covers every operator spelling, including ':' and '?'.
	Operator

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Semi
	Dot
	Newline
)

var kindName = [...]string{
	Illegal:    "ILLEGAL",
	Import:     "IMPORT",
	From:       "FROM",
	Class:      "CLASS",
	Interface:  "INTERFACE",
	Implements: "IMPLEMENTS",
	Var:        "VAR",
	Func:       "FUNC",
	If:         "IF",
	Else:       "ELSE",
	While:      "WHILE",
	Do:         "DO",
	For:        "FOR",
	In:         "IN",
	Break:      "BREAK",
	Continue:   "CONTINUE",
	Print:      "PRINT",
	Return:     "RETURN",
	Try:        "TRY",
	Catch:      "CATCH",
	True:       "TRUE",
	False:      "FALSE",
	Null:       "NULL",
	Set:        "SET",
	Instanceof: "INSTANCEOF",
	Number:     "NUMBER",
	String:     "STRING",
	Identifier: "IDENTIFIER",
	Operator:   "OPERATOR",
	LParen:     "LPAREN",
	RParen:     "RPAREN",
	LBrace:     "LBRACE",
	RBrace:     "RBRACE",
	LBracket:   "LBRACKET",
	RBracket:   "RBRACKET",
	Comma:      "COMMA",
	Colon:      "COLON",
	Semi:       "SEMI",
	Dot:        "DOT",
	Newline:    "NEWLINE",
}

// String returns the upper-case name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) && kindName[k] != "" {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= Import && k <= Instanceof }

// Keywords returns the spelling of every reserved word in lexing order.
func Keywords() []string {
	return []string{
		"import", "from", "class", "interface", "implements", "var", "func",
		"if", "else", "while", "do", "for", "in", "break", "continue",
		"print", "return", "try", "catch", "true", "false", "null", "set",
		"instanceof",
	}
}

// Token is a single lexeme with its kind and the 1-based line it starts on.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

// Is reports whether t has kind k and, when lexeme is given, that spelling.
func (t Token) Is(k Kind, lexeme ...string) bool {
	if t.Kind != k {
		return false
	}

	if len(lexeme) == 0 {
		return true
	}

	for _, l := range lexeme {
		if t.Lexeme == l {
			return true
		}
	}

	return false
}

// String renders t for diagnostics, e.g. `OPERATOR "+="`.
func (t Token) String() string {
	if t.Kind == Newline {
		return t.Kind.String()
	}

	return t.Kind.String() + " " + strconv.Quote(t.Lexeme)
}
