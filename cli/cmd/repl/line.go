package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	evalPrompt  = ">>> "
	morePrompt  = "... "
	clearScreen = "\033[H\033[2J"
)

// runLines is the line-mode loop. Prompts are written only when
// interactive, so piped output holds just results and errors.
func runLines(
	ctx context.Context,
	s *Session,
	in io.Reader,
	out io.Writer,
	history *History,
	interactive bool,
) error {
	prompt := func() {
		if !interactive {
			return
		}

		if s.Pending() {
			fmt.Fprint(out, morePrompt)
		} else {
			fmt.Fprint(out, evalPrompt)
		}
	}

	scanner := bufio.NewScanner(in)

	for prompt(); scanner.Scan(); prompt() {
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		_ = history.Add(line)

		r := s.Feed(ctx, line)
		if r.Edit {
			r = editLines(ctx, s, out)
		}

		writeReply(out, r)

		if r.Quit {
			return nil
		}
	}

	// A blank line evaluates an if statement still held for an else.
	if s.Pending() {
		writeReply(out, s.Feed(ctx, ""))
	}

	if interactive {
		fmt.Fprintln(out)
	}

	return scanner.Err()
}

func editLines(ctx context.Context, s *Session, out io.Writer) Reply {
	src, err := editSource(ctx, os.Stdin, out, os.Stderr, "")
	if err != nil {
		return Reply{Err: err}
	}

	if strings.TrimSpace(src) == "" {
		return Reply{}
	}

	return s.Eval(ctx, src)
}

func writeReply(out io.Writer, r Reply) {
	switch {
	case r.Err != nil:
		fmt.Fprintln(out, "error: "+r.Err.Error())
	case r.Clear:
		fmt.Fprint(out, clearScreen)
	case r.Output != "":
		fmt.Fprintln(out, r.Output)
	}
}
