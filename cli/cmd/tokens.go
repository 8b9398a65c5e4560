package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/shibo/lang"
	"github.com/ardnew/shibo/lang/token"
)

// Tokens prints the token stream of a script.
type Tokens struct {
	Newlines bool   `help:"Include NEWLINE tokens."`
	Source   string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	src, err := readSource(ctx, t.Source)
	if err != nil {
		return err
	}

	toks, err := lang.Tokenize(src)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdioFrom(ctx).out, tokenTable(toks, t.Newlines))

	return err
}

func tokenTable(toks []token.Token, newlines bool) string {
	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderHeader(false).
		Headers("LINE", "KIND", "LEXEME")

	for _, tok := range toks {
		if tok.Kind == token.Newline && !newlines {
			continue
		}

		tbl.Row(strconv.Itoa(tok.Line), tok.Kind.String(), strconv.Quote(tok.Lexeme))
	}

	return tbl.String()
}
