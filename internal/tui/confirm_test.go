package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func showQuitDialog() confirmModel {
	return newConfirmModel().show("Discard your selection and quit?", "Quit", "Keep editing")
}

func answerOf(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a result cmd")
	}
	res, ok := cmd().(confirmResultMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want confirmResultMsg", cmd())
	}
	return res.confirmed
}

func TestConfirmShow(t *testing.T) {
	m := showQuitDialog()
	if !m.active {
		t.Error("confirm should be active after show")
	}
	if m.focusAccept {
		t.Error("focus should start on the cancel button")
	}
}

func TestConfirmInactivePassesThrough(t *testing.T) {
	m := newConfirmModel()
	_, cmd, consumed := m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if consumed || cmd != nil {
		t.Error("inactive dialog must not consume keys")
	}
}

func TestConfirmKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"y accelerator", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("y")}}, true},
		{"n accelerator", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("n")}}, false},
		{"esc cancels", []tea.KeyMsg{{Type: tea.KeyEsc}}, false},
		{"enter on default focus cancels", []tea.KeyMsg{{Type: tea.KeyEnter}}, false},
		{"tab then enter accepts", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, true},
		{"left twice then enter cancels", []tea.KeyMsg{{Type: tea.KeyLeft}, {Type: tea.KeyLeft}, {Type: tea.KeyEnter}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := showQuitDialog()
			var cmd tea.Cmd
			for _, k := range tt.keys {
				var consumed bool
				m, cmd, consumed = m.update(k)
				if !consumed {
					t.Fatalf("key %q not consumed", k.String())
				}
			}
			if got := answerOf(t, cmd); got != tt.want {
				t.Errorf("confirmed = %v, want %v", got, tt.want)
			}
			if m.active {
				t.Error("dialog should close after answering")
			}
		})
	}
}

func TestConfirmConsumesOtherKeys(t *testing.T) {
	m := showQuitDialog()
	m, cmd, consumed := m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if !consumed || cmd != nil || !m.active {
		t.Error("unrelated keys should be swallowed while the dialog is open")
	}
}

func TestConfirmView(t *testing.T) {
	if newConfirmModel().view() != "" {
		t.Error("inactive dialog should render nothing")
	}
	v := showQuitDialog().setSize(60, 20).view()
	for _, want := range []string{"Discard your selection", "Quit", "Keep editing"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
