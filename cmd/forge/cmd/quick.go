package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

var quickCmd = &cobra.Command{
	Use:   "quick <bundle>",
	Short: "Set up a curated bundle without the wizard",
	Long: `Select every module of a bundle and run the setup without the
selection wizard. Credentials are still prompted for unless supplied with
--set or --from-env.

Like setup, this rebuilds the config's module section from the bundle.`,
	Example: `  forge quick essentials
  forge quick developer --set GITHUB_PERSONAL_ACCESS_TOKEN=ghp_xxx --non-interactive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		bundle, ok := d.catalog.Bundle(args[0])
		if !ok {
			return fmt.Errorf("unknown bundle %q (available: %s)", args[0], joinStrings(d.catalog.BundleIDs()))
		}
		skills, err := skillFlag(cmd, d.catalog)
		if err != nil {
			return err
		}

		sel := core.NewSelection(d.catalog)
		if err := sel.Select(bundle.Modules...); err != nil {
			return err
		}

		s, err := newSession(cmd, d)
		if err != nil {
			return err
		}
		if err := s.checkPrerequisites(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Setting up %s: %s\n\n", bundle.Name, joinStrings(sel.IDs()))
		return s.apply(sel, core.MergeReplace, skills)
	},
}

func init() {
	addApplyFlags(quickCmd)
	rootCmd.AddCommand(quickCmd)
}
