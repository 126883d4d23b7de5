package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	colorPrimary   = lipgloss.Color("#EA580C") // Forge orange
	colorSecondary = lipgloss.Color("#FDBA74") // Light orange
	colorSuccess   = lipgloss.Color("#10B981") // Green (ready)
	colorDanger    = lipgloss.Color("#EF4444") // Red (failed)
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorBorder    = lipgloss.Color("#374151") // Dark gray
	colorWarning   = lipgloss.Color("#F59E0B") // Amber (manual steps)
)

// Shared styles used across TUI views.
var (
	// Header bar: "forge  ~/.claude/config.json"
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	headerPathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F3F4F6")).
			Padding(0, 1)

	headerHintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Main content area.
	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	// NOTE: No MarginBottom; views add explicit \n for predictable height.
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorMuted)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Checked box and bundle member counts.
	checkStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	sectionRuleStyle = lipgloss.NewStyle().
				Foreground(colorBorder)

	// Wizard breadcrumb.
	wizardContentStyle = lipgloss.NewStyle().
				Padding(0, 1)

	wizardStepActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	wizardStepInactiveStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	wizardStepSeparatorStyle = lipgloss.NewStyle().
					Foreground(colorBorder)

	// Confirmation dialog.
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	dialogButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorMuted).
				Padding(0, 2)

	dialogActiveButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorPrimary).
				Padding(0, 2).
				Bold(true)

	// Status bar zones.
	statusSuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	statusErrorStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	statusWarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	statusCountStyle   = lipgloss.NewStyle().Foreground(colorSecondary)
)

// renderSectionHeader renders a section label with short rules on both sides:
// "  ── MODULES ──"
func renderSectionHeader(label string) string {
	rule := sectionRuleStyle.Render("──")
	text := sectionHeaderStyle.Render(" " + label + " ")
	return "  " + rule + text + rule
}
