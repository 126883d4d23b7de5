package core

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func statuses(outs []InstallationOutcome) []OutcomeStatus {
	s := make([]OutcomeStatus, len(outs))
	for i, o := range outs {
		s[i] = o.Status
	}
	return s
}

func TestInstallModules_PlatformMismatchSkipsAndContinues(t *testing.T) {
	c := testCatalog(t)
	o := NewOrchestrator(c, OrchestratorOptions{Runner: newFakeRunner(), GOOS: "linux"})

	outs := o.InstallModules(context.Background(), []string{"alpha", "mac-only", "delta"})

	want := []OutcomeStatus{StatusReady, StatusSkipped, StatusReady}
	if got := statuses(outs); !reflect.DeepEqual(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	if !strings.Contains(outs[1].Detail, "darwin") {
		t.Errorf("skip detail = %q, want platform mention", outs[1].Detail)
	}
}

func TestInstallModules_FailureDoesNotAbortBatch(t *testing.T) {
	c := testCatalog(t)
	runner := newFakeRunner().on("alpha-install", StepResult{
		Status:   StepFailed,
		ExitCode: 1,
		Output:   "npm ERR! code E404\nnpm ERR! 404 Not Found - GET https://registry.npmjs.org/alpha",
	})
	o := NewOrchestrator(c, OrchestratorOptions{Runner: runner, GOOS: "linux"})

	outs := o.InstallModules(context.Background(), []string{"alpha", "beta", "delta"})

	if len(outs) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outs))
	}
	want := []OutcomeStatus{StatusFailed, StatusReady, StatusReady}
	if got := statuses(outs); !reflect.DeepEqual(got, want) {
		t.Errorf("statuses = %v, want %v", got, want)
	}
	if !strings.Contains(outs[0].Detail, "E404") {
		t.Errorf("failure detail = %q, want captured output", outs[0].Detail)
	}
	if len(outs[0].Hints) == 0 {
		t.Error("failure should carry hints")
	}
}

func TestInstallModules_PostInstallFailureDowngrades(t *testing.T) {
	c := testCatalog(t)
	runner := newFakeRunner().on("delta-post", StepResult{Status: StepTimeout, ExitCode: -1})
	o := NewOrchestrator(c, OrchestratorOptions{Runner: runner, GOOS: "linux"})

	outs := o.InstallModules(context.Background(), []string{"delta", "alpha"})

	if outs[0].Status != StatusFailed {
		t.Fatalf("delta status = %s, want failed", outs[0].Status)
	}
	if !strings.HasPrefix(outs[0].Detail, "post-install:") {
		t.Errorf("detail = %q", outs[0].Detail)
	}
	if outs[1].Status != StatusReady {
		t.Errorf("alpha status = %s, want ready", outs[1].Status)
	}
	if got := runner.programs(); !reflect.DeepEqual(got, []string{"delta-install", "delta-post", "alpha-install"}) {
		t.Errorf("ran %v", got)
	}
}

func TestInstallModules_InstallFailureSkipsPostInstall(t *testing.T) {
	c := testCatalog(t)
	runner := newFakeRunner().on("delta-install", StepResult{Status: StepNotFound, ExitCode: -1})
	o := NewOrchestrator(c, OrchestratorOptions{Runner: runner, GOOS: "linux"})

	outs := o.InstallModules(context.Background(), []string{"delta"})

	if outs[0].Status != StatusFailed {
		t.Fatalf("status = %s, want failed", outs[0].Status)
	}
	for _, p := range runner.programs() {
		if p == "delta-post" {
			t.Error("post-install ran after a failed install step")
		}
	}
}

func TestInstallModules_NoInstallStepIsReady(t *testing.T) {
	c := testCatalog(t)
	runner := newFakeRunner()
	o := NewOrchestrator(c, OrchestratorOptions{Runner: runner, GOOS: "darwin"})

	outs := o.InstallModules(context.Background(), []string{"beta", "mac-only"})

	if got := statuses(outs); !reflect.DeepEqual(got, []OutcomeStatus{StatusReady, StatusReady}) {
		t.Errorf("statuses = %v", got)
	}
	if len(runner.programs()) != 0 {
		t.Errorf("ran %v, want nothing", runner.programs())
	}
}

func TestInstallModules_UnknownModule(t *testing.T) {
	o := NewOrchestrator(testCatalog(t), OrchestratorOptions{Runner: newFakeRunner(), GOOS: "linux"})
	outs := o.InstallModules(context.Background(), []string{"ghost", "alpha"})
	if got := statuses(outs); !reflect.DeepEqual(got, []OutcomeStatus{StatusFailed, StatusReady}) {
		t.Errorf("statuses = %v", got)
	}
}

func TestInstallModules_Progress(t *testing.T) {
	c := testCatalog(t)
	var events []string
	o := NewOrchestrator(c, OrchestratorOptions{
		Runner: newFakeRunner(),
		GOOS:   "linux",
		OnProgress: func(ev ProgressEvent) {
			s := string(ev.Phase) + ":" + ev.ID
			if ev.Outcome != nil {
				s += ":" + string(ev.Outcome.Status)
			}
			events = append(events, s)
		},
	})

	o.InstallModules(context.Background(), []string{"alpha", "mac-only"})

	want := []string{"start:alpha", "done:alpha:ready", "start:mac-only", "done:mac-only:skipped"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

// ---------------------------------------------------------------------------
// Skills
// ---------------------------------------------------------------------------

func TestInstallSkills_DriverMissingIsManual(t *testing.T) {
	c := testCatalog(t)
	runner := newFakeRunner()
	lookups := 0
	o := NewOrchestrator(c, OrchestratorOptions{
		Runner: runner,
		LookPath: func(name string) (string, error) {
			lookups++
			return lookPathMissing(name)
		},
	})

	outs := o.InstallSkills(context.Background(), []string{"pdf", "design"})

	if got := statuses(outs); !reflect.DeepEqual(got, []OutcomeStatus{StatusManualRequired, StatusManualRequired}) {
		t.Fatalf("statuses = %v", got)
	}
	if outs[0].ManualCommand != "fakedriver plugin install acme/skills/pdf" {
		t.Errorf("ManualCommand = %q", outs[0].ManualCommand)
	}
	if lookups != 1 {
		t.Errorf("driver looked up %d times, want 1", lookups)
	}
	if len(runner.programs()) != 0 {
		t.Error("commands ran although the driver is missing")
	}
}

func TestInstallSkills_ContinueOnError(t *testing.T) {
	c := testCatalog(t)
	runner := &skillRunner{fail: "acme/skills/pdf"}
	o := NewOrchestrator(c, OrchestratorOptions{Runner: runner, LookPath: lookPathFound})

	outs := o.InstallSkills(context.Background(), []string{"pdf", "design"})

	if got := statuses(outs); !reflect.DeepEqual(got, []OutcomeStatus{StatusFailed, StatusReady}) {
		t.Errorf("statuses = %v", got)
	}
	if outs[0].Kind != ItemSkill {
		t.Errorf("Kind = %s, want skill", outs[0].Kind)
	}
	if outs[0].ManualCommand == "" {
		t.Error("failed skill should offer the manual command")
	}
}

func TestInstallSkills_Empty(t *testing.T) {
	o := NewOrchestrator(testCatalog(t), OrchestratorOptions{Runner: newFakeRunner(), LookPath: lookPathMissing})
	if outs := o.InstallSkills(context.Background(), nil); len(outs) != 0 {
		t.Errorf("got %d outcomes for no skills", len(outs))
	}
}

// skillRunner fails the install whose last argument matches fail.
type skillRunner struct{ fail string }

func (r *skillRunner) Run(_ context.Context, argv []string) StepResult {
	if argv[len(argv)-1] == r.fail {
		return StepResult{Status: StepFailed, ExitCode: 2, Output: "plugin not found"}
	}
	return StepResult{Status: StepOK}
}
