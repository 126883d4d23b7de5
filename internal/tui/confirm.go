package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel is a centered modal with an accept and a cancel button. While
// active it consumes all key input.
//
// left/right/tab move focus; enter activates the focused button; y/n/esc are
// accelerators. The result arrives as a confirmResultMsg.
type confirmModel struct {
	active      bool
	message     string
	acceptLabel string
	cancelLabel string
	focusAccept bool

	width  int
	height int
}

// confirmResultMsg is sent after the user answers the dialog.
type confirmResultMsg struct {
	confirmed bool
}

func newConfirmModel() confirmModel {
	return confirmModel{}
}

// show opens the dialog with focus on the cancel button.
func (m confirmModel) show(message, acceptLabel, cancelLabel string) confirmModel {
	m.active = true
	m.message = message
	m.acceptLabel = acceptLabel
	m.cancelLabel = cancelLabel
	m.focusAccept = false
	return m
}

func (m confirmModel) setSize(width, height int) confirmModel {
	m.width = width
	m.height = height
	return m
}

func (m confirmModel) dismiss() confirmModel {
	return confirmModel{width: m.width, height: m.height}
}

func (m confirmModel) answer(confirmed bool) (confirmModel, tea.Cmd) {
	m = m.dismiss()
	return m, func() tea.Msg { return confirmResultMsg{confirmed: confirmed} }
}

// update handles key input while the dialog is active. The bool reports
// whether the message was consumed.
func (m confirmModel) update(msg tea.Msg) (confirmModel, tea.Cmd, bool) {
	if !m.active {
		return m, nil, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, confirmYesKey):
		m, cmd := m.answer(true)
		return m, cmd, true
	case key.Matches(keyMsg, confirmNoKey), key.Matches(keyMsg, keys.Back):
		m, cmd := m.answer(false)
		return m, cmd, true
	case key.Matches(keyMsg, keys.Enter):
		m, cmd := m.answer(m.focusAccept)
		return m, cmd, true
	case key.Matches(keyMsg, confirmSwitchKey):
		m.focusAccept = !m.focusAccept
	}
	return m, nil, true
}

func (m confirmModel) view() string {
	if !m.active {
		return ""
	}

	question := lipgloss.NewStyle().
		Width(40).
		Align(lipgloss.Center).
		Render(m.message)

	accept, cancel := dialogButtonStyle, dialogActiveButtonStyle
	if m.focusAccept {
		accept, cancel = dialogActiveButtonStyle, dialogButtonStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		accept.Render(m.acceptLabel), "  ", cancel.Render(m.cancelLabel))
	dialog := dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, question, "", buttons))

	if m.width <= 0 || m.height <= 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

// Key bindings for the dialog (not part of the global keyMap).
var (
	confirmYesKey = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	)
	confirmNoKey = key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "cancel"),
	)
	confirmSwitchKey = key.NewBinding(
		key.WithKeys("left", "right", "h", "l", "tab", "shift+tab"),
	)
)
