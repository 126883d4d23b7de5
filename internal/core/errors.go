package core

import (
	"errors"
	"fmt"
	"strings"
)

// CommandErrorKind classifies why an install step failed.
type CommandErrorKind int

const (
	// CmdErrUnknown is an unclassified failure with a non-zero exit.
	CmdErrUnknown CommandErrorKind = iota
	// CmdErrNotFound means the program is not on PATH.
	CmdErrNotFound
	// CmdErrTimeout means the step exceeded its time budget.
	CmdErrTimeout
	// CmdErrNetwork means a registry or host could not be reached.
	CmdErrNetwork
	// CmdErrPermission means the step lacked filesystem or registry permission.
	CmdErrPermission
	// CmdErrPackageNotFound means the package manager could not find the package.
	CmdErrPackageNotFound
)

// String returns a human-readable label for the error kind.
func (k CommandErrorKind) String() string {
	switch k {
	case CmdErrNotFound:
		return "Command Not Found"
	case CmdErrTimeout:
		return "Timeout"
	case CmdErrNetwork:
		return "Network Error"
	case CmdErrPermission:
		return "Permission Denied"
	case CmdErrPackageNotFound:
		return "Package Not Found"
	default:
		return "Command Failed"
	}
}

// CommandError is a structured error for a failed install or post-install
// step. It wraps the raw output with a classification and actionable hints.
type CommandError struct {
	Kind      CommandErrorKind
	Command   string // the full command line that was run (for display)
	ExitCode  int
	RawOutput string
	Hints     []string
	Err       error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Command, e.Kind, e.firstLine())
}

// Unwrap returns the underlying runner error.
func (e *CommandError) Unwrap() error { return e.Err }

// firstLine returns the first non-empty line of output for a concise message.
func (e *CommandError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "npm notice") {
			return line
		}
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.ExitCode)
}

// IsCommandError checks whether err wraps a *CommandError and returns it.
func IsCommandError(err error) (*CommandError, bool) {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ClassifyStepFailure turns a failed StepResult into a CommandError.
// It returns nil for a successful step.
func ClassifyStepFailure(argv []string, res StepResult) *CommandError {
	var kind CommandErrorKind
	switch res.Status {
	case StepOK:
		return nil
	case StepNotFound:
		kind = CmdErrNotFound
	case StepTimeout:
		kind = CmdErrTimeout
	default:
		kind = classifyOutput(res.Output)
	}

	program := ""
	if len(argv) > 0 {
		program = argv[0]
	}
	return &CommandError{
		Kind:      kind,
		Command:   FormatArgv(argv),
		ExitCode:  res.ExitCode,
		RawOutput: strings.TrimSpace(res.Output),
		Hints:     hintsForError(kind, program),
		Err:       res.Err,
	}
}

// classifyOutput pattern-matches command output to determine the error kind.
func classifyOutput(output string) CommandErrorKind {
	lower := strings.ToLower(output)

	if strings.Contains(lower, "eacces") ||
		strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted") {
		return CmdErrPermission
	}

	if strings.Contains(lower, "enotfound") ||
		strings.Contains(lower, "etimedout") ||
		strings.Contains(lower, "econnrefused") ||
		strings.Contains(lower, "econnreset") ||
		strings.Contains(lower, "could not resolve host") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "failed to fetch") {
		return CmdErrNetwork
	}

	if strings.Contains(lower, "e404") ||
		strings.Contains(lower, "404 not found") ||
		strings.Contains(lower, "no matching distribution") ||
		strings.Contains(lower, "no solution found") {
		return CmdErrPackageNotFound
	}

	return CmdErrUnknown
}

// hintsForError returns actionable suggestions based on the error kind.
func hintsForError(kind CommandErrorKind, program string) []string {
	switch kind {
	case CmdErrNotFound:
		hints := []string{fmt.Sprintf("Install %s and make sure it is on your PATH", program)}
		switch program {
		case "npx", "npm", "node":
			hints = append(hints, "Node.js 18+ ships npm and npx: https://nodejs.org")
		case "uvx", "uv":
			hints = append(hints, "Install uv: https://docs.astral.sh/uv/getting-started/installation/")
		}
		hints = append(hints, "Run `forge doctor` to check all prerequisites")
		return hints

	case CmdErrTimeout:
		return []string{
			"The step did not finish within the command timeout",
			"Raise commandTimeout in ~/.forge/settings.json for slow connections",
			"Try again; the package registry may have been temporarily slow",
		}

	case CmdErrNetwork:
		return []string{
			"Check your internet connection",
			"If behind a proxy, make sure npm/uv are configured to use it",
		}

	case CmdErrPermission:
		return []string{
			"Avoid running package managers with sudo; fix ownership of the cache directory instead",
			"For npm: `npm config get prefix` should point to a directory you own",
		}

	case CmdErrPackageNotFound:
		return []string{
			"The package name may have changed; check the module docs",
			"Run `forge list` with an updated catalog (--catalog) if you maintain one",
		}

	default:
		return []string{
			"Check the command output above for details",
			"Re-run the command manually to diagnose the issue",
		}
	}
}
