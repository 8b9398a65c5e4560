package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/shibo/log"
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	morePromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Underline(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true).Underline(true)
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6"))
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3")).
				Bold(true)
)

const (
	defaultWidth = 80
	charLimit    = 4096
	idleHint     = "Type a statement, :help for commands, Ctrl+D to exit"
)

// editDoneMsg carries the text saved from the external editor.
type editDoneMsg struct {
	src string
	err error
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx          context.Context
	session      *Session
	out          *bytes.Buffer // script output captured between renders
	input        textinput.Model
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int // byte offset of the word under the cursor
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
}

func newModel(
	ctx context.Context,
	session *Session,
	out *bytes.Buffer,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = charLimit
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		session:    session,
		out:        out,
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
		}

		if strings.TrimSpace(msg.src) == "" {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		return m.reply(m.session.Eval(m.ctx, msg.src), nil)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	cursor := m.byteCursor()

	switch c := enclosingCall(input, cursor); {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "" && !m.session.Pending():
		b.WriteString(hintStyle.Render(idleHint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case c.ok:
		b.WriteString(renderSignature(m.session.Interpreter(), c))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		switch {
		case m.input.Value() != "":
			m.input.SetValue("")
		case m.session.Pending():
			m.session.Reset()
			m.input.Prompt = promptStyle.Render(evalPrompt)
		default:
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyStep(-1)

	case tea.KeyDown:
		return m.historyStep(1)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle steps the selected candidate by dir and writes it into the input.
// A sole candidate is accepted at once.
func (m model) cycle(dir int) (model, tea.Cmd) {
	n := len(m.matches)
	if n == 0 {
		return m, nil
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		if dir > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = n - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m, nil
}

func (m model) historyStep(dir int) (model, tea.Cmd) {
	idx := m.historyIdx + dir
	if idx < 0 || idx > m.history.Len() {
		return m, nil
	}

	m.historyIdx = idx
	m.tabActive = false

	entry, _ := m.history.Entry(idx)
	m.input.SetValue(entry)
	m.input.CursorEnd()
	m.refreshMatches(false)

	return m, nil
}

// byteCursor converts the input's rune cursor to a byte offset.
func (m model) byteCursor() int {
	value := m.input.Value()
	pos := m.input.Position()

	for i := range value {
		if pos == 0 {
			return i
		}

		pos--
	}

	return len(value)
}

// replaceWord replaces the word under the cursor with s.
func (m *model) replaceWord(s string) {
	input := m.input.Value()
	start, end := min(m.wordStart, len(input)), min(m.wordEnd, len(input))

	m.input.SetValue(input[:start] + s + input[end:])
	m.input.SetCursor(utf8.RuneCountInString(input[:start] + s))

	m.wordEnd = start + len(s)
}

// refreshMatches recomputes candidates for the word under the cursor. With
// autoConfirm, a sole candidate equal to the typed word is accepted.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = complete(
		m.session.Interpreter(), m.input.Value(), m.byteCursor(),
	)

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()
	prompt := m.input.Prompt

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if err := m.history.Add(line); err != nil {
		m.logger.WarnContext(m.ctx, "save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(prompt + inputStyle.Render(line))

	// A held if statement is evaluated by the line after it, so a reply
	// asking for more input may still carry output.
	r := m.session.Feed(m.ctx, line)
	if r.More {
		m.input.Prompt = morePromptStyle.Render(morePrompt)
	} else {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}

	return m.reply(r, echo)
}

// reply renders r after first flushing captured script output.
func (m model) reply(r Reply, echo tea.Cmd) (model, tea.Cmd) {
	var cmds []tea.Cmd

	if echo != nil {
		cmds = append(cmds, echo)
	}

	if m.out.Len() > 0 {
		cmds = append(cmds, tea.Println(strings.TrimSuffix(m.out.String(), "\n")))
		m.out.Reset()
	}

	switch {
	case r.Quit:
		m.quitting = true

		cmds = append(cmds, tea.Quit)

	case r.Clear:
		cmds = append(cmds, tea.ClearScreen)

	case r.Edit:
		ctx := m.ctx
		exec := &editExec{ctx: ctx}

		cmds = append(cmds, tea.Exec(exec, func(err error) tea.Msg {
			return editDoneMsg{src: exec.src, err: err}
		}))

	case r.Err != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+r.Err.Error())))

	case r.Output != "":
		cmds = append(cmds, tea.Println(resultStyle.Render(r.Output)))
	}

	return m, tea.Sequence(cmds...)
}
