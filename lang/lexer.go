package lang

import (
	"strings"
	"sync"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/ardnew/shibo/lang/token"
)

// operatorPattern lists every operator spelling longest first so that, for
// example, ">>>=" is never split into ">>>" and "=".
const operatorPattern = `>>>=|>>>|<<=|<<|>>=|>>|\+=|-=|\*=|/=|%=|&=|\|=|\^=` +
	`|\+\+|--|==|!=|<=|>=|&&|\|\||//|[+\-*/%=<>!&|^~?:]`

type rule struct {
	kind token.Kind
	re   *regexp2.Regexp
}

// rules returns the token patterns in the order they are tried. The first
// pattern that matches at the current position wins, so keywords precede
// identifiers and the operator pattern precedes the colon.
var rules = sync.OnceValue(func() []rule {
	anchored := func(k token.Kind, pattern string) rule {
		return rule{k, regexp2.MustCompile(`\G(?:`+pattern+`)`, regexp2.None)}
	}

	var r []rule

	for i, kw := range token.Keywords() {
		r = append(r, anchored(token.Import+token.Kind(i), `\b`+kw+`\b`))
	}

	return append(r,
		anchored(token.Number, `[0-9]+\.[0-9]*|\.[0-9]+|[0-9]+`),
		anchored(token.String, `"[^"]*"`),
		anchored(token.Identifier, `[a-zA-Z_]\w*`),
		anchored(token.Operator, operatorPattern),
		anchored(token.LParen, `\(`),
		anchored(token.RParen, `\)`),
		anchored(token.LBrace, `\{`),
		anchored(token.RBrace, `\}`),
		anchored(token.LBracket, `\[`),
		anchored(token.RBracket, `\]`),
		anchored(token.Comma, `,`),
		anchored(token.Colon, `:`),
		anchored(token.Semi, `;`),
		anchored(token.Dot, `\.`),
	)
})

// Tokenize converts source text into a token stream. A '#' starts a comment
// that runs to the end of the line. Whitespace other than newline is
// skipped, and runs of newlines produce a single NEWLINE token.
func Tokenize(source string) ([]token.Token, error) {
	src := []rune(source)
	toks := make([]token.Token, 0, len(src)/3)
	line := 1

	for pos := 0; pos < len(src); {
		c := src[pos]

		switch {
		case c == '#':
			for pos < len(src) && src[pos] != '\n' {
				pos++
			}

			continue

		case c == '\n':
			if n := len(toks); n == 0 || toks[n-1].Kind != token.Newline {
				toks = append(toks, token.Token{Kind: token.Newline, Lexeme: "\n", Line: line})
			}

			line++
			pos++

			continue

		case unicode.IsSpace(c):
			pos++

			continue
		}

		kind, n := matchAt(src, pos)
		if n == 0 {
			return nil, &LexError{Line: line, Char: c}
		}

		lexeme := string(src[pos : pos+n])
		toks = append(toks, token.Token{Kind: kind, Lexeme: lexeme, Line: line})

		line += strings.Count(lexeme, "\n")
		pos += n
	}

	return toks, nil
}

// matchAt returns the kind and rune length of the first rule matching at pos.
func matchAt(src []rune, pos int) (token.Kind, int) {
	for _, r := range rules() {
		m, err := r.re.FindRunesMatchStartingAt(src, pos)
		if err != nil || m == nil || m.Index != pos || m.Length == 0 {
			continue
		}

		return r.kind, m.Length
	}

	return token.Illegal, 0
}
