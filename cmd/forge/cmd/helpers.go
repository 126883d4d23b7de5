package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
	"github.com/PerryB-GIT/support-forge-app-sub000/internal/tui"
)

// addApplyFlags registers the flags shared by every command that writes the
// assistant config.
func addApplyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArray("set", nil, "Credential value as NAME=VALUE (repeatable)")
	f.StringSlice("skip", nil, "Module IDs to leave out instead of asking for credentials")
	f.StringSlice("skill", nil, "Skill IDs to install after the modules")
	f.Bool("non-interactive", false, "Never prompt; fail when a required credential is missing")
	f.Bool("from-env", false, "Read credentials from the environment and .env.forge files")
	f.Bool("skip-install", false, "Write the config but run no install commands")
	f.Bool("force", false, "Continue even when required prerequisites are missing")
}

// addWizardFlags registers the flags that only the setup wizard reads.
func addWizardFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("module", nil, "Module IDs to preselect in the wizard")
}

// parseSetFlags turns repeated --set NAME=VALUE flags into a credential set.
func parseSetFlags(cmd *cobra.Command) (core.CredentialSet, error) {
	pairs, _ := cmd.Flags().GetStringArray("set")
	values := make(core.CredentialSet, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected NAME=VALUE", p)
		}
		values[name] = value
	}
	return values, nil
}

// skillFlag returns the --skill values after checking them against the catalog.
func skillFlag(cmd *cobra.Command, cat *core.Catalog) ([]string, error) {
	ids, _ := cmd.Flags().GetStringSlice("skill")
	for _, id := range ids {
		if _, ok := cat.Skill(id); !ok {
			return nil, fmt.Errorf("unknown skill %q", id)
		}
	}
	return ids, nil
}

// isInteractive reports whether prompts may be shown.
func isInteractive(cmd *cobra.Command) bool {
	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		return false
	}
	return tui.IsTerminal(os.Stdin) && tui.IsTerminal(os.Stdout)
}

// presetAsker answers fields supplied on the command line and defers the
// rest to next.
type presetAsker struct {
	values core.CredentialSet
	next   core.Asker
}

func (a *presetAsker) ConfirmModule(ctx context.Context, m *core.IntegrationModule) (bool, error) {
	for _, f := range m.Auth {
		if strings.TrimSpace(a.values[f.Name]) == "" {
			return a.next.ConfirmModule(ctx, m)
		}
	}
	return true, nil
}

func (a *presetAsker) AskField(ctx context.Context, m *core.IntegrationModule, f core.AuthField, attempt int) (string, error) {
	if v := a.values[f.Name]; attempt == 0 && strings.TrimSpace(v) != "" {
		return v, nil
	}
	return a.next.AskField(ctx, m, f, attempt)
}

// printPrerequisite writes one check result line, plus its hint on failure.
func printPrerequisite(w io.Writer, r core.PrerequisiteCheckResult) {
	mark := "✓"
	if !r.Passed {
		mark = "✗"
		if !r.Required {
			mark = "!"
		}
	}

	line := fmt.Sprintf("  %s %s", mark, r.Name)
	if r.Version != "" {
		line += " " + r.Version
	}
	if r.MinVersion != "" {
		line += fmt.Sprintf(" (need >= %s)", r.MinVersion)
	}
	if !r.Required {
		line += " [optional]"
	}
	if !r.Passed && r.Detail != "" {
		line += ": " + r.Detail
	}
	_, _ = fmt.Fprintln(w, line)
	if !r.Passed && r.Hint != "" {
		_, _ = fmt.Fprintf(w, "      → %s\n", r.Hint)
	}
}

// printUpdateStatus writes the advisory update line. Nothing is printed when
// the check is disabled.
func printUpdateStatus(w io.Writer, st core.UpdateStatus) {
	switch {
	case st.Available:
		_, _ = fmt.Fprintf(w, "A new version of forge is available: %s (you have %s)\n", st.Latest, st.Current)
	case st.Determined:
		_, _ = fmt.Fprintf(w, "forge %s is up to date\n", st.Current)
	case st.Reason != "" && st.Reason != core.ReasonDisabled:
		_, _ = fmt.Fprintf(w, "Could not check for updates: %s\n", st.Reason)
	}
}

// joinStrings concatenates string slices with ", " separator.
func joinStrings(ss []string) string {
	return strings.Join(ss, ", ")
}
