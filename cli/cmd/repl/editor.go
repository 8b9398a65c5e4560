package repl

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/shibo/pkg"
)

const defaultEditor = "vi"

// editorCommand returns the argv of the user's editor: $VISUAL, then
// $EDITOR, then vi.
func editorCommand() []string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if f := strings.Fields(os.Getenv(key)); len(f) > 0 {
			return f
		}
	}

	return []string{defaultEditor}
}

// editSource opens initial in the user's editor and returns the saved text.
func editSource(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	initial string,
) (string, error) {
	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.Ext)
	if err != nil {
		return "", err
	}

	path := f.Name()
	defer os.Remove(path)

	_, err = f.WriteString(initial)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return "", err
	}

	argv := editorCommand()

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// editExec runs the editor as a [tea.ExecCommand], which releases the
// terminal while the editor runs.
type editExec struct {
	ctx    context.Context
	src    string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (e *editExec) SetStdin(r io.Reader)  { e.stdin = r }
func (e *editExec) SetStdout(w io.Writer) { e.stdout = w }
func (e *editExec) SetStderr(w io.Writer) { e.stderr = w }

func (e *editExec) Run() error {
	src, err := editSource(e.ctx, e.stdin, e.stdout, e.stderr, "")
	e.src = src

	return err
}
