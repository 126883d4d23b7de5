package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core/system"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check host prerequisites",
	Long: `Probe every host prerequisite the catalog declares and report the
detected versions. Exits with status 1 when a required prerequisite is
missing or too old. Optional ones are reported but never fail the check.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		report := d.engine().CheckPrerequisites(cmd.Context())
		out := cmd.OutOrStdout()

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling report: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintf(out, "Assistant: %s (%s)\n", d.assistant.DisplayName(), d.configPath)
			var detected []string
			for _, s := range system.Detect() {
				detected = append(detected, s.DisplayName())
			}
			if len(detected) == 0 {
				detected = []string{"none"}
			}
			fmt.Fprintf(out, "Installed assistants: %s\n\n", joinStrings(detected))

			fmt.Fprintln(out, "Prerequisites:")
			passed := 0
			for _, r := range report.Results {
				printPrerequisite(out, r)
				if r.Passed {
					passed++
				}
			}
			fmt.Fprintf(out, "\n%d of %d checks passed", passed, len(report.Results))
			if n := len(report.Blocking()); n > 0 {
				fmt.Fprintf(out, ", %d required missing\n", n)
			} else {
				fmt.Fprintln(out)
			}

			st := d.updateChecker().Check(cmd.Context(), Version)
			printUpdateStatus(out, st)
		}

		if !report.Ready {
			return cliError{code: exitFailure, err: report.Err()}
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().Bool("json", false, "Output as JSON for scripting")
	rootCmd.AddCommand(doctorCmd)
}
