package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

// ErrWizardCancelled is returned when the user quits the wizard.
var ErrWizardCancelled = errors.New("setup cancelled")

// WizardOptions configures RunWizard.
type WizardOptions struct {
	Catalog    *core.Catalog
	GOOS       string
	ConfigPath string   // shown in the header and review step
	Preselect  []string // module ids selected on entry
	Skills     []string // skill ids selected on entry
	In         io.Reader
	Out        io.Writer
}

// WizardResult is what the user chose.
type WizardResult struct {
	Selection *core.Selection
	Skills    []string
}

// setupModel is the root Bubbletea model of the selection wizard.
type setupModel struct {
	catalog    *core.Catalog
	configPath string
	sel        *core.Selection
	skills     map[string]bool

	width  int
	height int
	ready  bool

	wizard  wizardModel
	status  statusBarModel
	help    help.Model
	confirm confirmModel

	done      bool
	cancelled bool
}

func newSetupModel(opts WizardOptions) (setupModel, error) {
	sel := core.NewSelection(opts.Catalog)
	if err := sel.Select(opts.Preselect...); err != nil {
		return setupModel{}, err
	}
	skills := make(map[string]bool, len(opts.Skills))
	for _, id := range opts.Skills {
		if _, ok := opts.Catalog.Skill(id); !ok {
			return setupModel{}, fmt.Errorf("unknown skill %q", id)
		}
		skills[id] = true
	}

	steps := []wizardStep{
		{name: "Modules", content: newChecklistStep(checklistModules, opts.Catalog, opts.GOOS, sel, skills)},
	}
	if len(opts.Catalog.Skills()) > 0 {
		steps = append(steps, wizardStep{name: "Skills", content: newChecklistStep(checklistSkills, opts.Catalog, opts.GOOS, sel, skills)})
	}
	steps = append(steps, wizardStep{name: "Review", content: newReviewStep(opts.Catalog, sel, skills, opts.ConfigPath)})

	h := help.New()
	h.ShortSeparator = "  |  "

	m := setupModel{
		catalog:    opts.Catalog,
		configPath: opts.ConfigPath,
		sel:        sel,
		skills:     skills,
		wizard:     newWizardModel(steps),
		status:     newStatusBarModel(),
		help:       h,
		confirm:    newConfirmModel(),
	}
	m.status = m.status.setCounts(sel.Len(), len(skills))
	return m, nil
}

func (m setupModel) Init() tea.Cmd { return nil }

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if next, cmd, consumed := m.confirm.update(msg); consumed {
		m.confirm = next
		return m, cmd
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.status.width = msg.Width
		m.help.Width = msg.Width
		w, h := m.innerContentSize()
		m.wizard = m.wizard.setSize(w, h)
		m.confirm = m.confirm.setSize(w, h)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Quit) {
			return m.requestQuit()
		}

	case wizardBackMsg:
		return m.requestQuit()

	case wizardDoneMsg:
		m.done = true
		return m, tea.Quit

	case confirmResultMsg:
		if msg.confirmed {
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil

	case statusMsg, statusDismissMsg:
		m.status, cmd = m.status.update(msg)
		return m, cmd
	}

	m.wizard, cmd = m.wizard.update(msg)
	m.status = m.status.setCounts(m.sel.Len(), len(m.skills))
	return m, cmd
}

// requestQuit exits directly when nothing is selected and asks otherwise.
func (m setupModel) requestQuit() (tea.Model, tea.Cmd) {
	if m.sel.Len() == 0 && len(m.skills) == 0 {
		m.cancelled = true
		return m, tea.Quit
	}
	m.confirm = m.confirm.show("Discard your selection and quit?", "Quit", "Keep editing")
	return m, nil
}

func (m setupModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	content := m.wizard.view()
	if m.confirm.active {
		content = m.confirm.view()
	}

	textW, textH := m.innerContentSize()
	content = clampHeight(clampWidth(content, textW), textH)

	chromeH := lipgloss.Height(header) + lipgloss.Height(footer) + 2
	styled := contentStyle.
		Width(max(0, m.width-contentStyle.GetHorizontalBorderSize())).
		Height(max(0, m.height-chromeH-contentStyle.GetVerticalBorderSize())).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, styled, footer)
}

func (m setupModel) renderHeader() string {
	logo := logoStyle.Render("forge")
	path := headerPathStyle.Render(shortenPath(m.configPath))
	hints := headerHintStyle.Render("Integration setup")

	left := lipgloss.JoinHorizontal(lipgloss.Top, " ", logo, " ", path)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hints) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + hints
}

func (m setupModel) renderFooter() string {
	return " " + m.status.view(helpStyle.Render(m.help.View(m.wizard.helpKeys())))
}

// innerContentSize returns the text area inside the content box.
func (m setupModel) innerContentSize() (width, height int) {
	chromeH := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter()) + 2
	width = max(0, m.width-contentStyle.GetHorizontalFrameSize())
	height = max(0, m.height-chromeH-contentStyle.GetVerticalFrameSize())
	return width, height
}

// result returns the choice once the wizard has finished.
func (m setupModel) result() (*WizardResult, error) {
	if m.cancelled || !m.done {
		return nil, ErrWizardCancelled
	}
	return &WizardResult{Selection: m.sel, Skills: selectedSkillIDs(m.catalog, m.skills)}, nil
}

// RunWizard shows the full-screen selection wizard and blocks until the user
// finishes or quits. Quitting returns ErrWizardCancelled.
func RunWizard(ctx context.Context, opts WizardOptions) (*WizardResult, error) {
	m, err := newSetupModel(opts)
	if err != nil {
		return nil, err
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.In != nil {
		progOpts = append(progOpts, tea.WithInput(opts.In))
	}
	if opts.Out != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Out))
	}

	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("running wizard: %w", err)
	}
	return final.(setupModel).result()
}

// shortenPath replaces the home directory prefix with ~.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}

// clampHeight truncates content to at most maxLines lines so an oversized
// step cannot push the header off-screen.
func clampHeight(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n")
}

// clampWidth truncates each line to maxWidth visible cells (ANSI aware) so
// lipgloss never wraps inside the fixed-width box.
func clampWidth(content string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > maxWidth {
			lines[i] = ansi.Truncate(line, maxWidth, "")
		}
	}
	return strings.Join(lines, "\n")
}
