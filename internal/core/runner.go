package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// StepStatus is the typed result of running one external command.
type StepStatus int

const (
	StepOK StepStatus = iota
	StepFailed
	StepTimeout
	StepNotFound
)

// String returns a short label for the status.
func (s StepStatus) String() string {
	switch s {
	case StepOK:
		return "ok"
	case StepFailed:
		return "failed"
	case StepTimeout:
		return "timeout"
	case StepNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// StepResult is what a Runner returns instead of an error.
type StepResult struct {
	Status   StepStatus
	Output   string // combined stdout and stderr
	ExitCode int    // -1 when the process did not exit normally
	Err      error
	Duration time.Duration
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Status == StepOK }

// Runner executes one command. Implementations never panic and never return
// a bare error: every outcome is encoded in StepResult.
type Runner interface {
	Run(ctx context.Context, argv []string) StepResult
}

// ExecRunner runs commands on the host with a per-command timeout.
type ExecRunner struct {
	Timeout time.Duration
	Env     []string // extra KEY=VALUE pairs appended to the process env
}

// NewExecRunner creates an ExecRunner. A non-positive timeout uses the default.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	return &ExecRunner{Timeout: timeout}
}

// Run executes argv and captures its combined output.
func (r *ExecRunner) Run(ctx context.Context, argv []string) StepResult {
	start := time.Now()
	if len(argv) == 0 {
		return StepResult{Status: StepFailed, ExitCode: -1, Err: errors.New("empty command")}
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return StepResult{
			Status:   StepNotFound,
			ExitCode: -1,
			Err:      fmt.Errorf("%s: command not found", argv[0]),
			Duration: time.Since(start),
		}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, path, argv[1:]...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.WaitDelay = 2 * time.Second

	out, err := cmd.CombinedOutput()
	res := StepResult{
		Output:   strings.TrimSpace(string(out)),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		res.Status = StepOK
	case errors.Is(cctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		res.Status = StepTimeout
		res.Err = fmt.Errorf("%s timed out after %s", argv[0], timeout)
	default:
		res.Status = StepFailed
		res.Err = err
		if ctx.Err() != nil {
			res.Err = ctx.Err()
		}
	}
	return res
}

// FormatArgv renders argv for display, quoting arguments with spaces.
func FormatArgv(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			parts[i] = fmt.Sprintf("%q", a)
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
