// Package lang implements the shibo scripting language: a lexer, a
// recursive-descent parser and a tree-walking interpreter with classes,
// functions, loops, try/catch and file-based modules.
//
// # Pipeline
//
// Source text flows through three composable stages:
//
//	toks, err := lang.Tokenize(src)     // []token.Token
//	prog, err := lang.Parse(toks)       // *ast.Program
//	val, err  := in.Eval(ctx, prog, nil) // lang.Value
//
// [ParseString] combines the first two and [ParseReader] additionally
// caches the tree by source hash.
//
// # Grammar
//
// Informal EBNF:
//
//	Program   → Stmt*
//	Stmt      → (Simple | Compound) (';' | NEWLINE)?
//	Simple    → 'var' ID '=' Expr | Expr (AssignOp Expr)? | 'print' '(' Expr ')'
//	          | 'return' Expr? | 'break' | 'continue'
//	          | 'import' ID | 'from' ID 'import' ('*' | ID (',' ID)*)
//	Compound  → 'func' ID '(' Params ')' Block
//	          | 'class' ID ('(' ID ')')? ('implements' ID (',' ID)*)? Block
//	          | 'interface' ID '{' ('func' ID '(' Params ')' ';'?)* '}'
//	          | 'if' '(' Expr ')' Block ('else' (If | Block))?
//	          | 'while' '(' Expr ')' Block | 'do' Block 'while' '(' Expr ')'
//	          | 'for' '(' Init? ';' Expr? ';' Post? ')' Block
//	          | 'for' '(' ID 'in' Expr ')' Block
//	          | 'try' Block 'catch' '(' ID ')' Block
//	Block     → '{' Stmt* '}'
//
// Binary operators bind from loosest to tightest: ?:, ||, &&, |, ^, &,
// == !=, < > <= >= instanceof, << >> >>>, + -, * / // %. Unary prefix
// operators bind tighter still, and postfix ++, --, calls, indexing,
// slicing and attribute access bind tightest.
//
// # Scoping
//
// A function call runs in a fresh environment holding its parameters and
// reading through to the module globals of the function. Locals of the
// caller and of any enclosing function are not visible unless
// [WithLexicalClosures] is set. Assignment always binds in the innermost
// environment, so a function cannot rebind a global.
//
// Names resolve in this order:
//
//  1. Call-local bindings
//  2. Module globals
//  3. Native registry ([WithNatives])
//  4. Null, or a fault with [WithStrictNames]
//
// # Values
//
// Null, Bool, Int, Float and Str are immutable. List, Dict, Set and
// Instance values are shared by reference: every alias observes mutation
// through any other. Class attribute defaults are evaluated once and shared
// by every instance unless [WithIsolateDefaults] is set.
//
// # Errors
//
// Tokenize fails with [*LexError] and Parse with [*ParseError]. Evaluation
// fails with [*Fault], which try/catch can intercept. By default try/catch
// also absorbs break, continue and return raised inside the try block; see
// [WithCatchSignals].
package lang
