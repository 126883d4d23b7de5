package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the setup wizard.
type keyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/up", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/down", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "continue"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space/x", "toggle"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all/none"),
	),
}

// ---------------------------------------------------------------------------
// Per-step help keymaps for the help.Model component.
// Each implements help.KeyMap (ShortHelp + FullHelp).
// ---------------------------------------------------------------------------

// checklistHelpKeyMap is shown on the module and skill steps.
type checklistHelpKeyMap struct {
	first bool // esc quits instead of going back
}

func (k checklistHelpKeyMap) ShortHelp() []key.Binding {
	b := []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.ToggleAll, keys.Enter}
	if !k.first {
		b = append(b, keys.Back)
	}
	return append(b, keys.Quit)
}

func (k checklistHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// reviewHelpKeyMap is shown on the review step.
type reviewHelpKeyMap struct{}

func (k reviewHelpKeyMap) ShortHelp() []key.Binding {
	install := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "install"))
	return []key.Binding{install, keys.Back, keys.Quit}
}

func (k reviewHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
