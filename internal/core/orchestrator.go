package core

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ProgressPhase marks where in an item's processing a ProgressEvent fires.
type ProgressPhase string

const (
	PhaseStart ProgressPhase = "start"
	PhaseDone  ProgressPhase = "done"
)

// ProgressEvent reports sequential install progress.
type ProgressEvent struct {
	Kind    ItemKind
	ID      string
	Name    string
	Index   int // 1-based position in the batch
	Total   int
	Phase   ProgressPhase
	Outcome *InstallationOutcome // set when Phase is PhaseDone
}

// ProgressFunc receives progress events. It is called synchronously.
type ProgressFunc func(ProgressEvent)

// OrchestratorOptions configures an Orchestrator.
type OrchestratorOptions struct {
	Runner     Runner                       // defaults to an ExecRunner
	LookPath   func(string) (string, error) // defaults to exec.LookPath
	GOOS       string                       // defaults to runtime.GOOS
	OnProgress ProgressFunc
	Logger     *zap.Logger
}

// Orchestrator runs per-module setup steps and skill installs one item at
// a time. Every attempted item yields exactly one outcome; a failure never
// stops the batch and nothing is retried.
type Orchestrator struct {
	catalog    *Catalog
	runner     Runner
	lookPath   func(string) (string, error)
	goos       string
	onProgress ProgressFunc
	log        *zap.Logger
}

// NewOrchestrator creates an Orchestrator bound to catalog.
func NewOrchestrator(catalog *Catalog, opts OrchestratorOptions) *Orchestrator {
	o := &Orchestrator{
		catalog:    catalog,
		runner:     opts.Runner,
		lookPath:   opts.LookPath,
		goos:       opts.GOOS,
		onProgress: opts.OnProgress,
		log:        opts.Logger,
	}
	if o.runner == nil {
		o.runner = NewExecRunner(0)
	}
	if o.lookPath == nil {
		o.lookPath = exec.LookPath
	}
	if o.goos == "" {
		o.goos = runtime.GOOS
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// InstallModules processes modules in the given order.
func (o *Orchestrator) InstallModules(ctx context.Context, ids []string) []InstallationOutcome {
	outcomes := make([]InstallationOutcome, 0, len(ids))
	for i, id := range ids {
		m, ok := o.catalog.Module(id)
		name := id
		if ok {
			name = m.Name
		}
		o.progress(ProgressEvent{Kind: ItemModule, ID: id, Name: name, Index: i + 1, Total: len(ids), Phase: PhaseStart})

		var out InstallationOutcome
		if !ok {
			out = InstallationOutcome{ID: id, Kind: ItemModule, Status: StatusFailed, Detail: "unknown module"}
		} else {
			out = o.installModule(ctx, m)
		}
		outcomes = append(outcomes, out)

		o.log.Info("module processed",
			zap.String("module", id),
			zap.String("status", string(out.Status)),
			zap.Duration("duration", out.Duration))
		o.progress(ProgressEvent{Kind: ItemModule, ID: id, Name: name, Index: i + 1, Total: len(ids), Phase: PhaseDone, Outcome: &out})
	}
	return outcomes
}

// installModule folds the platform check, install step and post-install
// step into one outcome.
func (o *Orchestrator) installModule(ctx context.Context, m IntegrationModule) InstallationOutcome {
	start := time.Now()
	out := InstallationOutcome{ID: m.ID, Kind: ItemModule}
	finish := func(status OutcomeStatus) InstallationOutcome {
		out.Status = status
		out.Duration = time.Since(start)
		return out
	}

	if !m.SupportsPlatform(o.goos) {
		out.Detail = fmt.Sprintf("requires %s (this host is %s)", strings.Join(m.Platforms, " or "), o.goos)
		return finish(StatusSkipped)
	}

	if len(m.Install) > 0 {
		if ce := o.runStep(ctx, m.Install); ce != nil {
			out.Detail = ce.Error()
			out.Hints = ce.Hints
			return finish(StatusFailed)
		}
	}

	if len(m.PostInstall) > 0 {
		if ce := o.runStep(ctx, m.PostInstall); ce != nil {
			out.Detail = "post-install: " + ce.Error()
			out.Hints = ce.Hints
			return finish(StatusFailed)
		}
	}

	return finish(StatusReady)
}

func (o *Orchestrator) runStep(ctx context.Context, argv []string) *CommandError {
	res := o.runner.Run(ctx, argv)
	if res.OK() {
		o.log.Debug("step succeeded", zap.String("command", FormatArgv(argv)), zap.Duration("duration", res.Duration))
		return nil
	}
	ce := ClassifyStepFailure(argv, res)
	o.log.Warn("step failed",
		zap.String("command", ce.Command),
		zap.String("kind", ce.Kind.String()),
		zap.Int("exitCode", res.ExitCode))
	return ce
}

// InstallSkills installs skills through the catalog's skill driver. The
// driver is looked up once; if it is absent every skill is reported as
// manualRequired with the command to run by hand.
func (o *Orchestrator) InstallSkills(ctx context.Context, ids []string) []InstallationOutcome {
	if len(ids) == 0 {
		return nil
	}

	driver := o.catalog.SkillDriver()
	_, err := o.lookPath(driver)
	driverMissing := err != nil
	if driverMissing {
		o.log.Info("skill driver not found; skills need manual install", zap.String("driver", driver))
	}

	outcomes := make([]InstallationOutcome, 0, len(ids))
	for i, id := range ids {
		s, ok := o.catalog.Skill(id)
		name := id
		if ok {
			name = s.Name
		}
		o.progress(ProgressEvent{Kind: ItemSkill, ID: id, Name: name, Index: i + 1, Total: len(ids), Phase: PhaseStart})

		start := time.Now()
		out := InstallationOutcome{ID: id, Kind: ItemSkill}
		switch {
		case !ok:
			out.Status = StatusFailed
			out.Detail = "unknown skill"
		case driverMissing:
			out.Status = StatusManualRequired
			out.Detail = fmt.Sprintf("%s not found on PATH", driver)
			out.ManualCommand = FormatArgv(o.catalog.SkillCommand(s))
		default:
			argv := o.catalog.SkillCommand(s)
			if ce := o.runStep(ctx, argv); ce != nil {
				out.Status = StatusFailed
				out.Detail = ce.Error()
				out.Hints = ce.Hints
				out.ManualCommand = FormatArgv(argv)
			} else {
				out.Status = StatusReady
			}
		}
		out.Duration = time.Since(start)
		outcomes = append(outcomes, out)

		o.log.Info("skill processed", zap.String("skill", id), zap.String("status", string(out.Status)))
		o.progress(ProgressEvent{Kind: ItemSkill, ID: id, Name: name, Index: i + 1, Total: len(ids), Phase: PhaseDone, Outcome: &out})
	}
	return outcomes
}

func (o *Orchestrator) progress(ev ProgressEvent) {
	if o.onProgress != nil {
		o.onProgress(ev)
	}
}
