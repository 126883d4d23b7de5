package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

// SummaryOptions controls summary rendering.
type SummaryOptions struct {
	Catalog *core.Catalog // used for display names; may be nil
	Width   int           // word wrap for the next-steps block; 0 means 80
	Plain   bool          // no colors or terminal styling
}

// statusLabel returns the icon and styled label for an outcome status.
func statusLabel(s core.OutcomeStatus) (string, lipgloss.Style) {
	switch s {
	case core.StatusReady:
		return "✓", statusSuccessStyle
	case core.StatusFailed:
		return "✗", statusErrorStyle
	case core.StatusSkipped:
		return "-", mutedStyle
	default:
		return "!", statusWarningStyle
	}
}

// RenderSummary renders the end-of-run report: every attempted item with its
// status, where the configuration went, and what to do next.
func RenderSummary(res *core.ApplyResult, opts SummaryOptions) (string, error) {
	var b strings.Builder

	b.WriteString("\n" + renderSectionHeader("SUMMARY") + "\n\n")
	if len(res.Outcomes) == 0 {
		b.WriteString("  " + mutedStyle.Render("Nothing was attempted.") + "\n")
	}
	for _, o := range res.Outcomes {
		icon, style := statusLabel(o.Status)
		name := displayName(opts.Catalog, o)
		line := fmt.Sprintf("  %s %-22s %s", style.Render(icon), name, style.Render(string(o.Status)))
		if o.Detail != "" {
			line += "  " + mutedStyle.Render(firstLine(o.Detail))
		}
		b.WriteString(line + "\n")
		for _, h := range o.Hints {
			b.WriteString("      " + mutedStyle.Render("→ "+h) + "\n")
		}
		if o.ManualCommand != "" {
			b.WriteString("      " + warningStyle.Render("run: "+o.ManualCommand) + "\n")
		}
	}

	s := res.Summary
	b.WriteString(fmt.Sprintf("\n  %s · %s · %s · %s\n",
		statusSuccessStyle.Render(fmt.Sprintf("%d ready", s.Ready)),
		statusErrorStyle.Render(fmt.Sprintf("%d failed", s.Failed)),
		mutedStyle.Render(fmt.Sprintf("%d skipped", s.Skipped)),
		statusWarningStyle.Render(fmt.Sprintf("%d manual", s.ManualRequired))))

	if syn := res.Synthesis; syn != nil {
		if syn.Unchanged {
			b.WriteString("\n  " + mutedStyle.Render("Configuration unchanged: "+syn.ConfigPath) + "\n")
		} else {
			b.WriteString("\n  Configuration written to " + headerPathStyle.Render(syn.ConfigPath) + "\n")
		}
		if syn.BackupPath != "" {
			b.WriteString("  " + warningStyle.Render("The previous file was not valid JSON; a copy was saved to "+syn.BackupPath) + "\n")
		}
	}

	steps, err := renderNextSteps(res, opts)
	if err != nil {
		return "", err
	}
	b.WriteString(steps)
	return b.String(), nil
}

// WriteSummary renders the summary to w.
func WriteSummary(w io.Writer, res *core.ApplyResult, opts SummaryOptions) error {
	out, err := RenderSummary(res, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func nextStepsMarkdown(res *core.ApplyResult) string {
	var md strings.Builder
	md.WriteString("## Next steps\n\n")
	if res.Synthesis != nil && !res.Synthesis.Unchanged {
		md.WriteString("1. **Restart your assistant** so it loads the new configuration.\n")
	} else {
		md.WriteString("1. No configuration changes were made; your assistant needs no restart.\n")
	}
	md.WriteString("2. Run `forge doctor` to re-check host prerequisites.\n")

	var failed, manual []core.InstallationOutcome
	for _, o := range res.Outcomes {
		switch o.Status {
		case core.StatusFailed:
			failed = append(failed, o)
		case core.StatusManualRequired:
			manual = append(manual, o)
		}
	}
	if len(failed) > 0 {
		md.WriteString("\nAfter fixing the failures above, retry them one at a time:\n\n")
		for _, o := range failed {
			if o.Kind == core.ItemModule {
				fmt.Fprintf(&md, "- `forge add %s`\n", o.ID)
			} else if o.ManualCommand != "" {
				fmt.Fprintf(&md, "- `%s`\n", o.ManualCommand)
			}
		}
	}
	if len(manual) > 0 {
		md.WriteString("\nThese items need a manual step:\n\n")
		for _, o := range manual {
			fmt.Fprintf(&md, "- `%s`\n", o.ManualCommand)
		}
	}
	return md.String()
}

func renderNextSteps(res *core.ApplyResult, opts SummaryOptions) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if opts.Plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(nextStepsMarkdown(res))
	if err != nil {
		return "", fmt.Errorf("rendering next steps: %w", err)
	}
	return out, nil
}

func displayName(cat *core.Catalog, o core.InstallationOutcome) string {
	if cat == nil {
		return o.ID
	}
	if o.Kind == core.ItemSkill {
		if s, ok := cat.Skill(o.ID); ok {
			return s.Name
		}
		return o.ID
	}
	if m, ok := cat.Module(o.ID); ok {
		return m.Name
	}
	return o.ID
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// NewProgressPrinter returns a progress callback that prints one line per
// item as the install pipeline runs.
func NewProgressPrinter(w io.Writer) core.ProgressFunc {
	return func(ev core.ProgressEvent) {
		switch ev.Phase {
		case core.PhaseStart:
			name := ev.Name
			if name == "" {
				name = ev.ID
			}
			verb := "Installing"
			if ev.Kind == core.ItemSkill {
				verb = "Adding skill"
			}
			_, _ = fmt.Fprintf(w, "  [%d/%d] %s %s... ", ev.Index, ev.Total, verb, name)
		case core.PhaseDone:
			if ev.Outcome == nil {
				_, _ = fmt.Fprintln(w)
				return
			}
			icon, style := statusLabel(ev.Outcome.Status)
			_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(icon+" "+string(ev.Outcome.Status)),
				mutedStyle.Render(ev.Outcome.Duration.Round(100*time.Millisecond).String()))
		}
	}
}
