package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

// checkState is the rendered state of one checkbox.
type checkState int

const (
	unchecked checkState = iota
	partial
	checked
)

func (c checkState) box() string {
	switch c {
	case checked:
		return checkStyle.Render("[x]")
	case partial:
		return badgeStyle.Render("[-]")
	default:
		return mutedStyle.Render("[ ]")
	}
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

// headerItem is a non-selectable section header.
type headerItem struct {
	label string
}

// FilterValue returns empty so headers never match a filter.
func (i headerItem) FilterValue() string { return "" }

type bundleItem struct {
	bundle core.Bundle
}

func (i bundleItem) FilterValue() string { return i.bundle.Name }

type moduleItem struct {
	module    core.IntegrationModule
	supported bool // false when the module cannot run on this host
}

func (i moduleItem) FilterValue() string { return i.module.Name }

type skillItem struct {
	skill core.Skill
}

func (i skillItem) FilterValue() string { return i.skill.Name }

func isHeader(it list.Item) bool {
	_, ok := it.(headerItem)
	return ok
}

// moduleItems lists bundles first, then modules grouped by category.
func moduleItems(cat *core.Catalog, goos string) []list.Item {
	var items []list.Item
	if bundles := cat.Bundles(); len(bundles) > 0 {
		items = append(items, headerItem{label: "BUNDLES"})
		for _, b := range bundles {
			items = append(items, bundleItem{bundle: b})
		}
	}
	for _, category := range cat.Categories() {
		items = append(items, headerItem{label: strings.ToUpper(category)})
		for _, m := range cat.ModulesInCategory(category) {
			items = append(items, moduleItem{module: m, supported: m.SupportsPlatform(goos)})
		}
	}
	return items
}

func skillItems(cat *core.Catalog) []list.Item {
	skills := cat.Skills()
	if len(skills) == 0 {
		return nil
	}
	items := []list.Item{headerItem{label: "SKILLS"}}
	for _, s := range skills {
		items = append(items, skillItem{skill: s})
	}
	return items
}

// ---------------------------------------------------------------------------
// Delegate
// ---------------------------------------------------------------------------

// checklistDelegate renders items as "  > [x] Name  description", reading
// checkbox state from the shared selection.
type checklistDelegate struct {
	sel    *core.Selection
	skills map[string]bool
}

func (d checklistDelegate) Height() int                             { return 1 }
func (d checklistDelegate) Spacing() int                            { return 0 }
func (d checklistDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d checklistDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if h, ok := item.(headerItem); ok {
		_, _ = fmt.Fprint(w, renderSectionHeader(h.label))
		return
	}

	isSelected := index == m.Index()
	indicator := "    "
	if isSelected {
		indicator = "  > "
	}

	var state checkState
	var name, desc string
	switch it := item.(type) {
	case bundleItem:
		state = d.bundleState(it.bundle)
		name = it.bundle.Name
		desc = badgeStyle.Render(fmt.Sprintf("%d modules", len(it.bundle.Modules))) + "  " +
			mutedStyle.Render(it.bundle.Description)
	case moduleItem:
		if d.sel.Has(it.module.ID) {
			state = checked
		}
		name = it.module.Name
		desc = mutedStyle.Render(it.module.Description)
		if it.module.RequiresAuth {
			desc = badgeStyle.Render("key") + "  " + desc
		}
		if !it.supported {
			desc = warningStyle.Render("("+strings.Join(it.module.Platforms, ", ")+" only)") + "  " + desc
		}
	case skillItem:
		if d.skills[it.skill.ID] {
			state = checked
		}
		name = it.skill.Name
		desc = mutedStyle.Render(it.skill.Description)
	default:
		return
	}

	if isSelected {
		name = selectedItemStyle.Render(name)
	} else {
		name = normalItemStyle.Render(name)
	}

	line := indicator + state.box() + " " + name + "  " + desc
	if width := m.Width(); width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	_, _ = fmt.Fprint(w, line)
}

// bundleState derives the bundle checkbox from module membership.
func (d checklistDelegate) bundleState(b core.Bundle) checkState {
	n := 0
	for _, id := range b.Modules {
		if d.sel.Has(id) {
			n++
		}
	}
	switch {
	case n == 0:
		return unchecked
	case n == len(b.Modules):
		return checked
	default:
		return partial
	}
}
