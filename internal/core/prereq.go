package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// versionRegexp matches the first dotted numeric version in probe output,
// e.g. "v18.19.0", "Python 3.11.4", "git version 2.39.3 (Apple Git-145)".
var versionRegexp = regexp.MustCompile(`\d+(?:\.\d+){1,2}`)

// PrerequisiteError reports required host capabilities that are missing or
// too old.
type PrerequisiteError struct {
	Failed []PrerequisiteCheckResult
}

func (e *PrerequisiteError) Error() string {
	names := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		names[i] = r.Name
	}
	return fmt.Sprintf("required prerequisites not met: %s", strings.Join(names, ", "))
}

// PrerequisiteReport aggregates the results of one verification pass.
type PrerequisiteReport struct {
	Results []PrerequisiteCheckResult `json:"results"`
	Ready   bool                      `json:"ready"` // false iff a required probe failed
}

// Blocking returns the failed required probes.
func (r *PrerequisiteReport) Blocking() []PrerequisiteCheckResult {
	var out []PrerequisiteCheckResult
	for _, res := range r.Results {
		if res.Required && !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Advisory returns the failed optional probes.
func (r *PrerequisiteReport) Advisory() []PrerequisiteCheckResult {
	var out []PrerequisiteCheckResult
	for _, res := range r.Results {
		if !res.Required && !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Err returns a *PrerequisiteError when the report is not ready.
func (r *PrerequisiteReport) Err() error {
	if r.Ready {
		return nil
	}
	return &PrerequisiteError{Failed: r.Blocking()}
}

// Verifier probes host capabilities.
type Verifier struct {
	runner Runner
	log    *zap.Logger
}

// NewVerifier creates a Verifier that runs probes through runner.
func NewVerifier(runner Runner, log *zap.Logger) *Verifier {
	if runner == nil {
		runner = NewExecRunner(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{runner: runner, log: log}
}

// Verify runs every probe in order and aggregates the results.
func (v *Verifier) Verify(ctx context.Context, prereqs []Prerequisite) *PrerequisiteReport {
	report := &PrerequisiteReport{Results: make([]PrerequisiteCheckResult, 0, len(prereqs)), Ready: true}
	for _, p := range prereqs {
		res := v.check(ctx, p)
		if res.Required && !res.Passed {
			report.Ready = false
		}
		v.log.Debug("prerequisite checked",
			zap.String("name", p.Name),
			zap.Bool("passed", res.Passed),
			zap.String("version", res.Version))
		report.Results = append(report.Results, res)
	}
	return report
}

func (v *Verifier) check(ctx context.Context, p Prerequisite) PrerequisiteCheckResult {
	res := PrerequisiteCheckResult{
		Name:       p.Name,
		Required:   p.Required,
		MinVersion: p.MinVersion,
		Hint:       p.Hint,
	}

	step := v.runner.Run(ctx, p.Command)
	switch step.Status {
	case StepOK:
	case StepNotFound:
		res.Detail = "not found"
		return res
	case StepTimeout:
		res.Found = true
		res.Detail = "timed out"
		return res
	default:
		res.Found = true
		res.Detail = fmt.Sprintf("%s exited with code %d", p.Command[0], step.ExitCode)
		return res
	}

	res.Found = true
	res.Version = ExtractVersion(step.Output)
	ok, detail := MeetsMinimum(res.Version, p.MinVersion)
	res.Passed = ok
	res.Detail = detail
	return res
}

// ExtractVersion returns the first dotted numeric version in s, or "".
func ExtractVersion(s string) string {
	return versionRegexp.FindString(s)
}

// MeetsMinimum compares a detected version against a minimum using
// major, minor, patch ordering. A missing or unparseable detected version
// passes, as does an empty or unparseable minimum.
func MeetsMinimum(detected, minimum string) (bool, string) {
	if minimum == "" {
		return true, ""
	}
	if detected == "" {
		return true, "version not reported"
	}
	have, err := semver.NewVersion(detected)
	if err != nil {
		return true, "unrecognised version " + detected
	}
	want, err := semver.NewVersion(minimum)
	if err != nil {
		return true, ""
	}
	if have.LessThan(want) {
		return false, fmt.Sprintf("%s is older than required %s", have, want)
	}
	return true, ""
}
