package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
	"github.com/PerryB-GIT/support-forge-app-sub000/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose modules and skills in the setup wizard",
	Long: `Check the host, pick bundles, modules and skills in a full-screen
wizard, then enter credentials and write the assistant config.

The config's module section is rebuilt from the selection: modules that
are not selected are removed. Other top-level settings are kept.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	addApplyFlags(setupCmd)
	addWizardFlags(setupCmd)
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if !isInteractive(cmd) {
		return errors.New("the setup wizard needs a terminal; use 'forge quick <bundle>' or 'forge add <module>' instead")
	}

	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	s, err := newSession(cmd, d)
	if err != nil {
		return err
	}
	if err := s.checkPrerequisites(); err != nil {
		return err
	}

	skills, err := skillFlag(cmd, d.catalog)
	if err != nil {
		return err
	}
	preselect, _ := cmd.Flags().GetStringSlice("module")

	result, err := tui.RunWizard(cmd.Context(), tui.WizardOptions{
		Catalog:    d.catalog,
		GOOS:       s.engine.GOOS(),
		ConfigPath: d.configPath,
		Preselect:  preselect,
		Skills:     skills,
	})
	if errors.Is(err, tui.ErrWizardCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled. Nothing was changed.")
		return nil
	}
	if err != nil {
		if ctxErr := cmd.Context().Err(); ctxErr != nil {
			return cliError{code: exitCancelled, err: ctxErr}
		}
		return err
	}

	return s.apply(result.Selection, core.MergeReplace, result.Skills)
}
