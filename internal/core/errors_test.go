package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantKind CommandErrorKind
	}{
		{
			name:     "npm eacces",
			output:   "npm ERR! code EACCES\nnpm ERR! syscall mkdir\nnpm ERR! path /usr/local/lib/node_modules",
			wantKind: CmdErrPermission,
		},
		{
			name:     "permission denied",
			output:   "error: could not write to cache: Permission denied (os error 13)",
			wantKind: CmdErrPermission,
		},
		{
			name:     "npm enotfound",
			output:   "npm ERR! code ENOTFOUND\nnpm ERR! network request to https://registry.npmjs.org failed",
			wantKind: CmdErrNetwork,
		},
		{
			name:     "uv network",
			output:   "error: Failed to fetch: `https://pypi.org/simple/mcp-server-fetch/`",
			wantKind: CmdErrNetwork,
		},
		{
			name:     "npm e404",
			output:   "npm ERR! code E404\nnpm ERR! 404 Not Found - GET https://registry.npmjs.org/@acme%2fnope",
			wantKind: CmdErrPackageNotFound,
		},
		{
			name:     "uv no solution",
			output:   "  × No solution found when resolving tool dependencies:",
			wantKind: CmdErrPackageNotFound,
		},
		{
			name:     "unclassified",
			output:   "something else went wrong",
			wantKind: CmdErrUnknown,
		},
		{
			name:     "empty",
			output:   "",
			wantKind: CmdErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyOutput(tt.output); got != tt.wantKind {
				t.Errorf("classifyOutput() = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestClassifyStepFailure_ByStatus(t *testing.T) {
	argv := []string{"npx", "-y", "pkg"}

	if ce := ClassifyStepFailure(argv, StepResult{Status: StepOK}); ce != nil {
		t.Errorf("ok step classified as %v", ce)
	}

	ce := ClassifyStepFailure(argv, StepResult{Status: StepNotFound, ExitCode: -1, Err: errors.New("npx: command not found")})
	if ce.Kind != CmdErrNotFound {
		t.Errorf("Kind = %v, want not found", ce.Kind)
	}
	if !strings.Contains(strings.Join(ce.Hints, "\n"), "nodejs.org") {
		t.Errorf("hints = %v, want Node.js pointer for npx", ce.Hints)
	}
	if ce.Command != "npx -y pkg" {
		t.Errorf("Command = %q", ce.Command)
	}

	ce = ClassifyStepFailure(argv, StepResult{Status: StepTimeout, ExitCode: -1})
	if ce.Kind != CmdErrTimeout {
		t.Errorf("Kind = %v, want timeout", ce.Kind)
	}
}

func TestCommandError_ErrorMessage(t *testing.T) {
	ce := ClassifyStepFailure([]string{"uvx", "mcp-server-git"}, StepResult{
		Status:   StepFailed,
		ExitCode: 1,
		Output:   "\n\nerror: something broke\nmore detail\n",
	})
	msg := ce.Error()
	if !strings.Contains(msg, "uvx mcp-server-git") || !strings.Contains(msg, "error: something broke") {
		t.Errorf("Error() = %q", msg)
	}
	if strings.Contains(msg, "more detail") {
		t.Errorf("Error() should only include the first line, got %q", msg)
	}

	empty := &CommandError{Command: "x", ExitCode: 3}
	if !strings.Contains(empty.Error(), "exit status 3") {
		t.Errorf("Error() = %q, want exit status fallback", empty.Error())
	}
}

func TestIsCommandError_Unwraps(t *testing.T) {
	ce := &CommandError{Kind: CmdErrNetwork, Command: "npx"}
	wrapped := fmt.Errorf("installing github: %w", ce)

	got, ok := IsCommandError(wrapped)
	if !ok || got != ce {
		t.Errorf("IsCommandError() = %v, %v", got, ok)
	}
	if _, ok := IsCommandError(errors.New("plain")); ok {
		t.Error("plain error reported as CommandError")
	}
	if _, ok := IsCommandError(nil); ok {
		t.Error("nil reported as CommandError")
	}
}

func TestCommandErrorKind_String(t *testing.T) {
	kinds := []CommandErrorKind{CmdErrUnknown, CmdErrNotFound, CmdErrTimeout, CmdErrNetwork, CmdErrPermission, CmdErrPackageNotFound}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		if s == "" || seen[s] {
			t.Errorf("kind %d has empty or duplicate label %q", k, s)
		}
		seen[s] = true
	}
}
