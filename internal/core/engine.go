package core

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EngineOptions wires the engine's collaborators.
type EngineOptions struct {
	Catalog     *Catalog
	ConfigPath  string
	ReservedKey string
	Runner      Runner
	LookPath    func(string) (string, error)
	GOOS        string
	Now         func() time.Time
	Logger      *zap.Logger
}

// Engine sequences credential collection, synthesis and installation for
// one session. It holds no per-run state and may be reused.
type Engine struct {
	opts      EngineOptions
	catalog   *Catalog
	collector *Collector
	synth     *Synthesizer
	verifier  *Verifier
	log       *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Runner == nil {
		opts.Runner = NewExecRunner(0)
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	return &Engine{
		opts:      opts,
		catalog:   opts.Catalog,
		collector: NewCollector(opts.Catalog, opts.Logger),
		synth: NewSynthesizer(opts.Catalog, SynthesizerOptions{
			ConfigPath:  opts.ConfigPath,
			ReservedKey: opts.ReservedKey,
			Now:         opts.Now,
			Logger:      opts.Logger,
		}),
		verifier: NewVerifier(opts.Runner, opts.Logger),
		log:      opts.Logger,
	}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// ConfigPath returns the document path the engine writes.
func (e *Engine) ConfigPath() string { return e.synth.ConfigPath() }

// GOOS returns the platform modules are checked against.
func (e *Engine) GOOS() string { return e.opts.GOOS }

// ApplyOptions configures one Apply run.
type ApplyOptions struct {
	Mode        MergeMode // defaults to MergeReplace
	Skills      []string  // skill ids to install after modules
	SkipInstall bool      // write the document but run no commands
	OnProgress  ProgressFunc
}

// Summary counts outcomes by status.
type Summary struct {
	Ready          int `json:"ready"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
	ManualRequired int `json:"manualRequired"`
}

// Add counts one outcome.
func (s *Summary) Add(o InstallationOutcome) {
	switch o.Status {
	case StatusReady:
		s.Ready++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	case StatusManualRequired:
		s.ManualRequired++
	}
}

// ApplyResult is everything one Apply run produced.
type ApplyResult struct {
	RunID     string                `json:"runId"`
	Selection []string              `json:"selection"` // modules requested, catalog order
	Synthesis *SynthesisResult      `json:"synthesis"`
	Outcomes  []InstallationOutcome `json:"outcomes"`
	Summary   Summary               `json:"summary"`
}

// Apply runs collect, synthesize and install for sel. Per-item failures are
// reported as outcomes; only a failure to collect credentials or to write
// the document aborts the run. sel itself is not modified.
func (e *Engine) Apply(ctx context.Context, sel *Selection, asker Asker, opts ApplyOptions) (*ApplyResult, error) {
	runID := uuid.NewString()
	log := e.log.With(zap.String("run", runID))
	if opts.Mode == "" {
		opts.Mode = MergeReplace
	}

	res := &ApplyResult{RunID: runID, Selection: sel.IDs(), Outcomes: []InstallationOutcome{}}
	log.Info("apply started",
		zap.Strings("modules", res.Selection),
		zap.Strings("skills", opts.Skills),
		zap.String("mode", string(opts.Mode)))

	collected, err := e.collector.Collect(ctx, sel, asker)
	if err != nil {
		return nil, fmt.Errorf("collecting credentials: %w", err)
	}

	// Skipped modules never reach synthesis.
	work := sel.Clone()
	work.Remove(collected.Skipped...)

	synth, err := e.synth.synthesize(ctx, work, sel.Len() > 0, collected.Credentials, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("writing configuration: %w", err)
	}
	res.Synthesis = synth

	byID := make(map[string]InstallationOutcome, len(res.Selection))
	for _, id := range collected.Skipped {
		byID[id] = InstallationOutcome{ID: id, Kind: ItemModule, Status: StatusSkipped, Detail: "credentials not provided"}
	}
	for id, reason := range synth.Rejected {
		byID[id] = InstallationOutcome{ID: id, Kind: ItemModule, Status: StatusFailed, Detail: reason}
	}

	orch := NewOrchestrator(e.catalog, OrchestratorOptions{
		Runner:     e.opts.Runner,
		LookPath:   e.opts.LookPath,
		GOOS:       e.opts.GOOS,
		OnProgress: opts.OnProgress,
		Logger:     log,
	})

	if opts.SkipInstall {
		for _, id := range synth.Written {
			byID[id] = InstallationOutcome{ID: id, Kind: ItemModule, Status: StatusReady, Detail: "configured; install step not run"}
		}
	} else {
		for _, o := range orch.InstallModules(ctx, synth.Written) {
			byID[o.ID] = o
		}
	}

	for _, id := range res.Selection {
		if o, ok := byID[id]; ok {
			res.Outcomes = append(res.Outcomes, o)
		}
	}

	if opts.SkipInstall {
		for _, id := range opts.Skills {
			o := InstallationOutcome{ID: id, Kind: ItemSkill, Status: StatusManualRequired, Detail: "install step not run"}
			if s, ok := e.catalog.Skill(id); ok {
				o.ManualCommand = FormatArgv(e.catalog.SkillCommand(s))
			} else {
				o.Status = StatusFailed
				o.Detail = "unknown skill"
			}
			res.Outcomes = append(res.Outcomes, o)
		}
	} else {
		res.Outcomes = append(res.Outcomes, orch.InstallSkills(ctx, opts.Skills)...)
	}

	for _, o := range res.Outcomes {
		res.Summary.Add(o)
	}
	log.Info("apply finished",
		zap.Int("ready", res.Summary.Ready),
		zap.Int("failed", res.Summary.Failed),
		zap.Int("skipped", res.Summary.Skipped),
		zap.Int("manualRequired", res.Summary.ManualRequired))
	return res, nil
}

// CheckPrerequisites verifies the catalog's host prerequisites.
func (e *Engine) CheckPrerequisites(ctx context.Context) *PrerequisiteReport {
	return e.verifier.Verify(ctx, e.catalog.Prerequisites())
}
