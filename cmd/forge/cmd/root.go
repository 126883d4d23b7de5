package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Exit codes.
const (
	exitFailure   = 1
	exitPrereq    = 2
	exitCancelled = 130
)

// cliError carries a process exit code alongside the error.
type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }
func (e cliError) Unwrap() error { return e.err }

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	var ce cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitFailure
}

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Provision your AI coding assistant with integrations and skills",
	Long: `Forge sets up an AI coding assistant in one pass.

Pick integration modules and bundles, enter the credentials they need,
and forge writes the assistant's configuration file, installs the
supporting tools and adds skills. Running forge with no command starts
the interactive setup wizard.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSetup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("assistant", "", "Assistant to configure: claude-code, cursor, gemini-cli (default claude-code)")
	pf.String("config", "", "Assistant config file to write (default: the assistant's own config file)")
	pf.String("catalog", "", "Catalog YAML to use instead of the built-in one")
	pf.String("log-level", "", "Diagnostic log level: debug, info, warn, error")

	addApplyFlags(rootCmd)
	addWizardFlags(rootCmd)
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func versionString() string {
	return fmt.Sprintf("forge %s (commit: %s, built: %s)", Version, Commit, Date)
}
