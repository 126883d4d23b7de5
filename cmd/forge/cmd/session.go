package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
	"github.com/PerryB-GIT/support-forge-app-sub000/internal/tui"
)

// session is one config-writing command run: the engine plus the asker the
// user's flags selected.
type session struct {
	cmd     *cobra.Command
	d       *deps
	engine  *core.Engine
	asker   core.Asker
	console *tui.ConsoleAsker // nil when prompts are disabled
}

func newSession(cmd *cobra.Command, d *deps) (*session, error) {
	values, err := parseSetFlags(cmd)
	if err != nil {
		return nil, err
	}
	skip, _ := cmd.Flags().GetStringSlice("skip")
	for _, id := range skip {
		if _, ok := d.catalog.Module(id); !ok {
			return nil, fmt.Errorf("unknown module %q in --skip", id)
		}
	}

	s := &session{cmd: cmd, d: d, engine: d.engine()}

	if isInteractive(cmd) {
		s.console = tui.NewConsoleAsker(os.Stdin, cmd.OutOrStdout())
		s.asker = s.console
		if len(values) > 0 {
			s.asker = &presetAsker{values: values, next: s.console}
		}
	} else {
		s.asker = core.NewBatchAsker(values)
	}

	if fromEnv, _ := cmd.Flags().GetBool("from-env"); fromEnv {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		s.asker = core.NewEnvAsker(core.NewEnvResolver(cwd, d.config.ConfigDir()), s.asker, d.log)
	}
	// Skips win over any value source.
	if len(skip) > 0 {
		s.asker = &skipAsker{skip: skip, next: s.asker}
	}
	return s, nil
}

// checkPrerequisites probes the host. Optional failures are reported and
// ignored. Required failures stop the run unless --force is set or the user
// chooses to continue.
func (s *session) checkPrerequisites() error {
	out := s.cmd.OutOrStdout()
	report := s.engine.CheckPrerequisites(s.cmd.Context())

	for _, r := range report.Advisory() {
		printPrerequisite(out, r)
	}
	if report.Ready {
		return nil
	}

	_, _ = fmt.Fprintln(out, "Required prerequisites are missing:")
	for _, r := range report.Blocking() {
		printPrerequisite(out, r)
	}

	if force, _ := s.cmd.Flags().GetBool("force"); force {
		_, _ = fmt.Fprintln(out, "Continuing anyway (--force).")
		s.d.log.Warn("prerequisites bypassed with --force", zap.Error(report.Err()))
		return nil
	}
	if s.console != nil {
		ok, err := s.console.Confirm(s.cmd.Context(), "Continue anyway?", false)
		if err != nil {
			return err
		}
		if ok {
			s.d.log.Warn("prerequisites bypassed by user", zap.Error(report.Err()))
			return nil
		}
	}
	return cliError{code: exitPrereq, err: report.Err()}
}

// apply runs collection, synthesis and installation, then prints the summary.
func (s *session) apply(sel *core.Selection, mode core.MergeMode, skills []string) error {
	out := s.cmd.OutOrStdout()
	skipInstall, _ := s.cmd.Flags().GetBool("skip-install")

	res, err := s.engine.Apply(s.cmd.Context(), sel, s.asker, core.ApplyOptions{
		Mode:        mode,
		Skills:      skills,
		SkipInstall: skipInstall,
		OnProgress:  tui.NewProgressPrinter(out),
	})
	if err != nil {
		if errors.Is(err, core.ErrFieldRequired) {
			return fmt.Errorf("%w; pass it with --set NAME=VALUE, --from-env or --skip", err)
		}
		if ctxErr := s.cmd.Context().Err(); ctxErr != nil {
			return cliError{code: exitCancelled, err: ctxErr}
		}
		return err
	}

	_, _ = fmt.Fprintln(out)
	return tui.WriteSummary(out, res, tui.SummaryOptions{
		Catalog: s.d.catalog,
		Plain:   !tui.IsTerminal(os.Stdout),
	})
}

// skipAsker declines the listed modules without prompting.
type skipAsker struct {
	skip []string
	next core.Asker
}

func (a *skipAsker) ConfirmModule(ctx context.Context, m *core.IntegrationModule) (bool, error) {
	for _, id := range a.skip {
		if id == m.ID {
			return false, nil
		}
	}
	return a.next.ConfirmModule(ctx, m)
}

func (a *skipAsker) AskField(ctx context.Context, m *core.IntegrationModule, f core.AuthField, attempt int) (string, error) {
	return a.next.AskField(ctx, m, f, attempt)
}
