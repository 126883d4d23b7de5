package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

// ---------------------------------------------------------------------------
// Checklist step (modules + bundles, or skills)
// ---------------------------------------------------------------------------

type checklistKind int

const (
	checklistModules checklistKind = iota
	checklistSkills
)

// checklistStep toggles items of the shared selection. The selection and
// skill set are pointers shared with the other steps.
type checklistStep struct {
	kind    checklistKind
	catalog *core.Catalog
	goos    string
	sel     *core.Selection
	skills  map[string]bool
	list    list.Model
}

func newChecklistStep(kind checklistKind, cat *core.Catalog, goos string, sel *core.Selection, skills map[string]bool) *checklistStep {
	var items []list.Item
	if kind == checklistModules {
		items = moduleItems(cat, goos)
	} else {
		items = skillItems(cat)
	}

	l := list.New(items, checklistDelegate{sel: sel, skills: skills}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	s := &checklistStep{kind: kind, catalog: cat, goos: goos, sel: sel, skills: skills, list: l}
	s.move(0)
	return s
}

func (s *checklistStep) Init() tea.Cmd { return nil }

func (s *checklistStep) setSize(width, height int) stepModel {
	s.list.SetSize(width, height)
	return s
}

func (s *checklistStep) helpKeys(first bool) help.KeyMap {
	return checklistHelpKeyMap{first: first}
}

func (s *checklistStep) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		s.move(-1)
	case key.Matches(keyMsg, keys.Down):
		s.move(1)
	case key.Matches(keyMsg, keys.Toggle):
		return s, s.toggleCurrent()
	case key.Matches(keyMsg, keys.ToggleAll):
		s.toggleAll()
	case key.Matches(keyMsg, keys.Enter):
		if s.kind == checklistModules && s.sel.Len() == 0 {
			return s, showStatus("Select at least one module", statusWarning)
		}
		return s, func() tea.Msg { return wizardNextMsg{} }
	}
	return s, nil
}

func (s *checklistStep) View() string {
	if len(s.list.Items()) == 0 {
		return mutedStyle.Render("  Nothing to choose here. Press enter to continue.")
	}
	return s.list.View()
}

// move shifts the cursor by delta, stepping over section headers. A zero
// delta moves to the first selectable item at or after the cursor.
func (s *checklistStep) move(delta int) {
	items := s.list.Items()
	step := delta
	if step == 0 {
		step = 1
	}
	i := s.list.Index() + delta
	for i >= 0 && i < len(items) && isHeader(items[i]) {
		i += step
	}
	if i >= 0 && i < len(items) {
		s.list.Select(i)
	}
}

func (s *checklistStep) toggleCurrent() tea.Cmd {
	switch it := s.list.SelectedItem().(type) {
	case bundleItem:
		if err := s.sel.ToggleBundle(it.bundle.ID); err != nil {
			return showStatus(err.Error(), statusError)
		}
		if s.sel.IsBundleSelected(it.bundle.ID) {
			return showStatus(fmt.Sprintf("Added %s (%d modules)", it.bundle.Name, len(it.bundle.Modules)), statusSuccess)
		}
		return showStatus("Removed "+it.bundle.Name, statusSuccess)
	case moduleItem:
		if err := s.sel.ToggleModule(it.module.ID); err != nil {
			return showStatus(err.Error(), statusError)
		}
		if !it.supported && s.sel.Has(it.module.ID) {
			return showStatus(fmt.Sprintf("%s only runs on %s; it will be skipped", it.module.Name,
				strings.Join(it.module.Platforms, ", ")), statusWarning)
		}
	case skillItem:
		s.skills[it.skill.ID] = !s.skills[it.skill.ID]
		if !s.skills[it.skill.ID] {
			delete(s.skills, it.skill.ID)
		}
	}
	return nil
}

// toggleAll selects every item that can run here, or clears the step when
// everything is already selected.
func (s *checklistStep) toggleAll() {
	if s.kind == checklistSkills {
		all := s.catalog.Skills()
		if len(s.skills) == len(all) {
			for id := range s.skills {
				delete(s.skills, id)
			}
			return
		}
		for _, sk := range all {
			s.skills[sk.ID] = true
		}
		return
	}

	var supported []string
	for _, m := range s.catalog.Modules() {
		if m.SupportsPlatform(s.goos) {
			supported = append(supported, m.ID)
		}
	}
	allSelected := true
	for _, id := range supported {
		if !s.sel.Has(id) {
			allSelected = false
			break
		}
	}
	if allSelected {
		s.sel.Remove(s.sel.IDs()...)
		return
	}
	_ = s.sel.Select(supported...)
}

// ---------------------------------------------------------------------------
// Review step
// ---------------------------------------------------------------------------

type reviewStep struct {
	sel        *core.Selection
	skills     map[string]bool
	catalog    *core.Catalog
	configPath string
	width      int
}

func newReviewStep(cat *core.Catalog, sel *core.Selection, skills map[string]bool, configPath string) *reviewStep {
	return &reviewStep{sel: sel, skills: skills, catalog: cat, configPath: configPath}
}

func (s *reviewStep) Init() tea.Cmd { return nil }

func (s *reviewStep) setSize(width, _ int) stepModel {
	s.width = width
	return s
}

func (s *reviewStep) helpKeys(bool) help.KeyMap { return reviewHelpKeyMap{} }

func (s *reviewStep) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Enter) {
		return s, func() tea.Msg { return wizardNextMsg{} }
	}
	return s, nil
}

func (s *reviewStep) View() string {
	var b strings.Builder

	mods := s.sel.Modules()
	b.WriteString(renderSectionHeader(fmt.Sprintf("MODULES (%d)", len(mods))) + "\n")
	needKeys := 0
	for _, m := range mods {
		line := "    " + normalItemStyle.Render(m.Name)
		if m.RequiresAuth {
			needKeys++
			line += "  " + badgeStyle.Render("credentials needed")
		}
		b.WriteString(line + "\n")
	}

	skills := selectedSkillIDs(s.catalog, s.skills)
	if len(skills) > 0 {
		b.WriteString("\n" + renderSectionHeader(fmt.Sprintf("SKILLS (%d)", len(skills))) + "\n")
		for _, id := range skills {
			sk, _ := s.catalog.Skill(id)
			b.WriteString("    " + normalItemStyle.Render(sk.Name) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  Config: ") + headerPathStyle.Render(s.configPath) + "\n")
	if needKeys > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  You will be asked for credentials for %d module(s) next.", needKeys)) + "\n")
	}
	b.WriteString(warningStyle.Render("  Existing integration entries in this file will be replaced.") + "\n")
	return b.String()
}

// selectedSkillIDs returns chosen skills in catalog order.
func selectedSkillIDs(cat *core.Catalog, chosen map[string]bool) []string {
	var ids []string
	for _, sk := range cat.Skills() {
		if chosen[sk.ID] {
			ids = append(ids, sk.ID)
		}
	}
	return ids
}
