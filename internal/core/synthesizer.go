package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SynthesizerOptions configures a Synthesizer.
type SynthesizerOptions struct {
	ConfigPath  string // assistant config document; required
	ReservedKey string // defaults to DefaultReservedKey
	Now         func() time.Time
	Logger      *zap.Logger
}

// Synthesizer resolves module templates and merges them into the assistant
// config document.
type Synthesizer struct {
	catalog     *Catalog
	configPath  string
	reservedKey string
	now         func() time.Time
	log         *zap.Logger
}

// NewSynthesizer creates a Synthesizer bound to catalog.
func NewSynthesizer(catalog *Catalog, opts SynthesizerOptions) *Synthesizer {
	s := &Synthesizer{
		catalog:     catalog,
		configPath:  opts.ConfigPath,
		reservedKey: opts.ReservedKey,
		now:         opts.Now,
		log:         opts.Logger,
	}
	if s.reservedKey == "" {
		s.reservedKey = DefaultReservedKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// ConfigPath returns the document path the synthesizer writes.
func (s *Synthesizer) ConfigPath() string { return s.configPath }

// SynthesisResult reports what a synthesis run wrote.
type SynthesisResult struct {
	ConfigPath   string            `json:"configPath"`
	BackupPath   string            `json:"backupPath,omitempty"` // set when a corrupt document was moved aside
	Mode         MergeMode         `json:"mode"`
	Written      []string          `json:"written"`            // module ids written, catalog order
	Rejected     map[string]string `json:"rejected,omitempty"` // module id -> reason
	MetadataPath string            `json:"metadataPath,omitempty"`
	Unchanged    bool              `json:"unchanged,omitempty"` // document not touched
}

// Synthesize resolves every selected module against creds and merges the
// results into the document. Modules whose templates reference a missing
// credential are rejected and not written. An empty selection leaves the
// document untouched. In replace mode a non-empty selection that resolves
// to nothing clears the reserved key. Only failures to read, back up or
// write the document are returned as errors.
func (s *Synthesizer) Synthesize(ctx context.Context, sel *Selection, creds CredentialSet, mode MergeMode) (*SynthesisResult, error) {
	return s.synthesize(ctx, sel, sel.Len() > 0, creds, mode)
}

// synthesize is Synthesize for a selection the caller may already have
// narrowed. chosen reports whether the user picked any modules at all.
func (s *Synthesizer) synthesize(ctx context.Context, sel *Selection, chosen bool, creds CredentialSet, mode MergeMode) (*SynthesisResult, error) {
	if s.configPath == "" {
		return nil, errors.New("config path is required")
	}
	if mode == "" {
		mode = MergeReplace
	}

	res := &SynthesisResult{
		ConfigPath: s.configPath,
		Mode:       mode,
		Written:    []string{},
	}

	entries := make(map[string]any)
	for _, m := range sel.Modules() {
		resolved, err := ResolveTemplate(m, creds)
		if err != nil {
			var mc *MissingCredentialError
			if !errors.As(err, &mc) {
				return nil, fmt.Errorf("resolving %s: %w", m.ID, err)
			}
			if res.Rejected == nil {
				res.Rejected = make(map[string]string)
			}
			res.Rejected[m.ID] = err.Error()
			s.log.Warn("module rejected", zap.String("module", m.ID), zap.String("field", mc.Field))
			continue
		}
		entries[m.ID] = resolved
		res.Written = append(res.Written, m.ID)
	}

	// Nothing has touched the disk yet; abandoning here leaves no trace.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 && (!chosen || mode == MergeAppend) {
		res.Unchanged = true
		s.log.Info("nothing to synthesize", zap.String("path", s.configPath))
		return res, nil
	}

	doc, err := LoadDocument(s.configPath)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if doc.Corrupt() {
		bp, err := doc.Backup(now)
		if err != nil {
			return nil, fmt.Errorf("backing up corrupt %s: %w", s.configPath, err)
		}
		res.BackupPath = bp
		s.log.Warn("corrupt config document backed up",
			zap.String("path", s.configPath), zap.String("backup", bp))
	}

	if err := doc.Merge(s.reservedKey, mode, entries); err != nil {
		return nil, fmt.Errorf("merging %s: %w", s.configPath, err)
	}
	if err := doc.Write(); err != nil {
		return nil, err
	}
	s.log.Info("config document written",
		zap.String("path", s.configPath),
		zap.String("mode", string(mode)),
		zap.Strings("modules", res.Written))

	if len(res.Written) > 0 {
		mdPath := MetadataPath(s.configPath)
		md := LoadCredentialMetadata(mdPath)
		for _, id := range res.Written {
			m, _ := s.catalog.Module(id)
			for _, f := range m.Auth {
				md.Record(f.Name, id, now)
			}
		}
		if err := md.Save(mdPath); err != nil {
			// Diagnostic metadata never fails a run whose document was written.
			s.log.Warn("credential metadata not saved", zap.Error(err))
		} else {
			res.MetadataPath = mdPath
		}
	}

	return res, nil
}
