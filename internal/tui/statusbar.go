package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// statusMsgKind defines the visual style of a transient status message.
type statusMsgKind int

const (
	statusSuccess statusMsgKind = iota
	statusError
	statusWarning
)

// statusAutoDismiss is how long transient messages stay visible.
const statusAutoDismiss = 3 * time.Second

// statusMsg asks the status bar to show a transient message.
type statusMsg struct {
	text string
	kind statusMsgKind
}

func showStatus(text string, kind statusMsgKind) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, kind: kind} }
}

// statusBarModel is the bottom line of the wizard.
//
// Layout: [left: transient message or help] [right: selection counter]
type statusBarModel struct {
	width int

	msg     string
	msgKind statusMsgKind
	msgID   int // Monotonic; used to ignore stale dismiss timers.
	nextID  int

	modules int
	skills  int
}

// statusDismissMsg is sent by the auto-dismiss timer.
type statusDismissMsg struct {
	id int
}

func newStatusBarModel() statusBarModel {
	return statusBarModel{}
}

// showMsg displays a transient message in the left zone and returns a
// command that dismisses it after statusAutoDismiss.
func (m statusBarModel) showMsg(text string, kind statusMsgKind) (statusBarModel, tea.Cmd) {
	m.msg = text
	m.msgKind = kind
	m.msgID = m.nextID
	m.nextID++

	id := m.msgID
	cmd := tea.Tick(statusAutoDismiss, func(_ time.Time) tea.Msg {
		return statusDismissMsg{id: id}
	})
	return m, cmd
}

func (m statusBarModel) dismissMsg() statusBarModel {
	m.msg = ""
	return m
}

// setCounts updates the selection counter.
func (m statusBarModel) setCounts(modules, skills int) statusBarModel {
	m.modules = modules
	m.skills = skills
	return m
}

func (m statusBarModel) update(msg tea.Msg) (statusBarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		return m.showMsg(msg.text, msg.kind)
	case statusDismissMsg:
		if msg.id == m.msgID {
			m = m.dismissMsg()
		}
	}
	return m, nil
}

// view renders the status bar. An active message replaces the help content.
func (m statusBarModel) view(helpContent string) string {
	left := m.renderLeft()
	if left == "" {
		left = helpContent
	}
	right := m.renderRight()
	if right == "" {
		return left
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + fmt.Sprintf("%*s%s", gap, "", right)
}

func (m statusBarModel) renderLeft() string {
	if m.msg == "" {
		return ""
	}
	switch m.msgKind {
	case statusSuccess:
		return statusSuccessStyle.Render("✓ " + m.msg)
	case statusError:
		return statusErrorStyle.Render("✗ " + m.msg)
	case statusWarning:
		return statusWarningStyle.Render("⚠ " + m.msg)
	}
	return ""
}

func (m statusBarModel) renderRight() string {
	if m.modules == 0 && m.skills == 0 {
		return ""
	}
	text := fmt.Sprintf("%d modules", m.modules)
	if m.modules == 1 {
		text = "1 module"
	}
	if m.skills > 0 {
		text += fmt.Sprintf(" · %d skills", m.skills)
	}
	return statusCountStyle.Render(text + " selected")
}
