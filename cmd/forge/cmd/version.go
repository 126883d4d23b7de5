package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, versionString())

		if noCheck, _ := cmd.Flags().GetBool("no-check"); noCheck {
			return nil
		}
		d, err := newDeps(cmd)
		if err != nil {
			// Update check is advisory.
			return nil
		}
		defer d.close()
		printUpdateStatus(out, d.updateChecker().Check(cmd.Context(), Version))
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("no-check", false, "Skip the update check")
	rootCmd.AddCommand(versionCmd)
}
