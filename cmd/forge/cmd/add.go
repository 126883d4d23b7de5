package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

var addCmd = &cobra.Command{
	Use:   "add <module>...",
	Short: "Add modules to the existing config",
	Long: `Add one or more modules to the assistant config without touching
the modules already configured. An existing entry with the same ID is
overwritten.`,
	Example: `  forge add github
  forge add postgres --set POSTGRES_URL=postgresql://localhost/app`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		sel := core.NewSelection(d.catalog)
		for _, id := range args {
			if _, ok := d.catalog.Module(id); !ok {
				return fmt.Errorf("unknown module %q; run 'forge list' to see available modules", id)
			}
		}
		if err := sel.Select(args...); err != nil {
			return err
		}
		skills, err := skillFlag(cmd, d.catalog)
		if err != nil {
			return err
		}

		s, err := newSession(cmd, d)
		if err != nil {
			return err
		}
		if err := s.checkPrerequisites(); err != nil {
			return err
		}
		return s.apply(sel, core.MergeAppend, skills)
	},
}

func init() {
	addApplyFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}
