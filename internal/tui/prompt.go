package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// errPromptAborted is returned when the user leaves a prompt with esc or
// ctrl+c. It wraps context.Canceled so callers treat it like an interrupt.
var errPromptAborted = fmt.Errorf("prompt aborted: %w", context.Canceled)

// promptModel is a one-line inline input. It does not take over the screen;
// the final view stays in the scrollback with secrets masked.
type promptModel struct {
	input   textinput.Model
	secret  bool
	done    bool
	aborted bool
}

var promptAbortKey = key.NewBinding(key.WithKeys("esc", "ctrl+c"))

func newPromptModel(prompt string, secret bool) promptModel {
	in := textinput.New()
	in.Prompt = prompt
	in.CharLimit = 4096
	in.Width = 48
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	in.Focus()
	return promptModel{input: in, secret: secret}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Enter):
			m.done = true
			return m, tea.Quit
		case key.Matches(keyMsg, promptAbortKey):
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if !m.done && !m.aborted {
		return m.input.View() + "\n"
	}
	shown := m.input.Value()
	if m.secret {
		shown = strings.Repeat(string(m.input.EchoCharacter), len([]rune(shown)))
	}
	return m.input.Prompt + shown + "\n"
}

// Value returns the entered text.
func (m promptModel) Value() string { return m.input.Value() }

// runPrompt runs an inline prompt program on in/out and returns the answer.
func runPrompt(ctx context.Context, in io.Reader, out io.Writer, prompt string, secret bool) (string, error) {
	p := tea.NewProgram(newPromptModel(prompt, secret),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return "", errPromptAborted
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("running prompt: %w", err)
	}
	m := final.(promptModel)
	if m.aborted {
		return "", errPromptAborted
	}
	return m.Value(), nil
}
