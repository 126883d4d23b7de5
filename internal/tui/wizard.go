package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// wizardNextMsg is emitted by a step model when it is ready to advance.
type wizardNextMsg struct{}

// wizardDoneMsg is emitted by wizardModel when the last step completes.
type wizardDoneMsg struct{}

// wizardBackMsg is emitted by wizardModel when esc is pressed on step 0.
type wizardBackMsg struct{}

// stepModel is the content of one wizard step.
type stepModel interface {
	tea.Model
	setSize(width, height int) stepModel
	helpKeys(first bool) help.KeyMap
}

// wizardStep defines one step in a wizard flow.
type wizardStep struct {
	name    string // Displayed in the step indicator.
	content stepModel
}

// wizardModel runs an ordered list of steps under a breadcrumb indicator.
// Step content models emit wizardNextMsg to advance; the wizard emits
// wizardDoneMsg when the last step completes.
type wizardModel struct {
	width, height int

	steps     []wizardStep
	activeIdx int
}

func newWizardModel(steps []wizardStep) wizardModel {
	return wizardModel{steps: steps}
}

// setSize updates the content area and resizes every step to fit below the
// indicator.
func (m wizardModel) setSize(width, height int) wizardModel {
	m.width = width
	m.height = height
	stepH := height - lipgloss.Height(m.renderStepIndicator()) - 1
	if stepH < 1 {
		stepH = 1
	}
	for i := range m.steps {
		m.steps[i].content = m.steps[i].content.setSize(width-2, stepH)
	}
	return m
}

// activeStep returns the currently active step, or nil if out of bounds.
func (m wizardModel) activeStep() *wizardStep {
	if m.activeIdx >= 0 && m.activeIdx < len(m.steps) {
		return &m.steps[m.activeIdx]
	}
	return nil
}

func (m wizardModel) helpKeys() help.KeyMap {
	if step := m.activeStep(); step != nil {
		return step.content.helpKeys(m.activeIdx == 0)
	}
	return checklistHelpKeyMap{}
}

// update intercepts wizardNextMsg to advance and esc to go back. All other
// messages are forwarded to the active step.
func (m wizardModel) update(msg tea.Msg) (wizardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case wizardNextMsg:
		if m.activeIdx >= len(m.steps)-1 {
			return m, func() tea.Msg { return wizardDoneMsg{} }
		}
		m.activeIdx++
		return m, m.steps[m.activeIdx].content.Init()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Back) {
			if m.activeIdx > 0 {
				m.activeIdx--
				return m, nil
			}
			return m, func() tea.Msg { return wizardBackMsg{} }
		}
	}

	if step := m.activeStep(); step != nil {
		next, cmd := step.content.Update(msg)
		step.content = next.(stepModel)
		return m, cmd
	}
	return m, nil
}

func (m wizardModel) view() string {
	if len(m.steps) == 0 {
		return ""
	}

	indicator := m.renderStepIndicator()
	stepView := m.steps[m.activeIdx].content.View()

	content := stepView
	if indicator != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, indicator, "", stepView)
	}
	return wizardContentStyle.Render(content)
}

// renderStepIndicator draws the breadcrumb strip:
//
//	Modules → Skills → Review
//	───────
func (m wizardModel) renderStepIndicator() string {
	if len(m.steps) <= 1 {
		return ""
	}

	var parts []string
	var activeLabel string
	for i, step := range m.steps {
		if i == m.activeIdx {
			parts = append(parts, wizardStepActiveStyle.Render(step.name))
			activeLabel = step.name
		} else {
			parts = append(parts, wizardStepInactiveStyle.Render(step.name))
		}
	}

	sep := wizardStepSeparatorStyle.Render(" → ")
	breadcrumb := strings.Join(parts, sep)

	offset := 0
	sepWidth := lipgloss.Width(sep)
	for i := 0; i < m.activeIdx; i++ {
		offset += lipgloss.Width(m.steps[i].name) + sepWidth
	}
	underline := wizardStepActiveStyle.Render(strings.Repeat("─", lipgloss.Width(activeLabel)))

	return breadcrumb + "\n" + strings.Repeat(" ", offset) + underline
}
