package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

// InstallRequestBody is the payload of POST /api/install. Credentials map
// auth field names to values; modules listed in Skip are skipped instead of
// prompting.
type InstallRequestBody struct {
	Modules     []string          `json:"modules"`
	Bundles     []string          `json:"bundles"`
	Credentials map[string]string `json:"credentials"`
	Skip        []string          `json:"skip"`
	Skills      []string          `json:"skills"`
	Mode        core.MergeMode    `json:"mode"`
	SkipInstall bool              `json:"skipInstall"`
}

type ModuleInfo struct {
	core.IntegrationModule
	Supported bool `json:"supported"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"configPath": s.engine.ConfigPath(),
	})
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	goos := s.engine.GOOS()
	mods := s.engine.Catalog().Modules()
	out := make([]ModuleInfo, 0, len(mods))
	for _, m := range mods {
		out = append(out, ModuleInfo{IntegrationModule: m, Supported: m.SupportsPlatform(goos)})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleBundles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Catalog().Bundles())
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Catalog().Skills())
}

func (s *Server) handlePrerequisites(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.CheckPrerequisites(r.Context()))
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	var body InstallRequestBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	switch body.Mode {
	case "", core.MergeReplace, core.MergeAppend:
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", body.Mode))
		return
	}

	sel, err := s.buildSelection(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	asker := core.NewBatchAsker(body.Credentials, body.Skip...)
	res, err := s.engine.Apply(r.Context(), sel, asker, core.ApplyOptions{
		Mode:        body.Mode,
		Skills:      body.Skills,
		SkipInstall: body.SkipInstall,
	})
	s.metrics.observeApply(res, err)
	if err != nil {
		s.log.Warn("install request failed", zap.Error(err))
		if errors.Is(err, core.ErrFieldRequired) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) buildSelection(body InstallRequestBody) (*core.Selection, error) {
	cat := s.engine.Catalog()
	sel := core.NewSelection(cat)
	for _, id := range body.Bundles {
		b, ok := cat.Bundle(id)
		if !ok {
			return nil, fmt.Errorf("unknown bundle %q", id)
		}
		if err := sel.Select(b.Modules...); err != nil {
			return nil, err
		}
	}
	if err := sel.Select(body.Modules...); err != nil {
		return nil, err
	}
	for _, id := range body.Skills {
		if _, ok := cat.Skill(id); !ok {
			return nil, fmt.Errorf("unknown skill %q", id)
		}
	}
	return sel, nil
}
