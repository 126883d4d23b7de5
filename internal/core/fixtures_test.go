package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// testCatalogYAML is a small catalog exercising every template shape.
const testCatalogYAML = `
version: 1
skillDriver: fakedriver
skillInstall: ["fakedriver", "plugin", "install", "{source}"]
prerequisites:
  - name: node
    command: ["node", "--version"]
    minVersion: "18.0.0"
    required: true
  - name: uv
    command: ["uv", "--version"]
    required: false
modules:
  - id: alpha
    name: Alpha
    description: No credentials
    category: core
    requiresAuth: false
    install: ["alpha-install"]
    config:
      command: npx
      args: ["-y", "alpha-server"]
  - id: beta
    name: Beta
    description: API key in env
    category: core
    requiresAuth: true
    auth:
      - name: API_KEY
        label: Beta API key
        secret: true
    config:
      command: npx
      args: ["-y", "beta-server"]
      env:
        API_KEY: "${API_KEY}"
  - id: gamma
    name: Gamma
    description: Multi-value paths
    category: files
    requiresAuth: true
    auth:
      - name: PATHS
        label: Paths
        multiValue: true
    config:
      command: npx
      args: ["serve", "${PATHS}"]
  - id: delta
    name: Delta
    description: Defaulted host and shared key
    category: files
    requiresAuth: true
    auth:
      - name: API_KEY
      - name: HOST
        default: example.com
    install: ["delta-install"]
    postInstall: ["delta-post"]
    config:
      command: uvx
      args: ["delta", "--host", "${HOST}"]
      env:
        API_KEY: "${API_KEY}"
  - id: mac-only
    name: Mac Only
    description: Platform constrained
    category: core
    requiresAuth: false
    platforms: ["darwin"]
    config:
      command: npx
      args: ["mac-only"]
bundles:
  - id: trio
    name: Trio
    description: Three modules
    modules: [alpha, beta, gamma]
  - id: pair
    name: Pair
    description: Two modules
    modules: [alpha, delta]
skills:
  - id: pdf
    name: PDF
    description: PDF tools
    source: acme/skills/pdf
  - id: design
    name: Design
    description: Design tools
    source: acme/skills/design
`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalog([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	return c
}

func testSelection(t *testing.T, c *Catalog, ids ...string) *Selection {
	t.Helper()
	sel := NewSelection(c)
	if err := sel.Select(ids...); err != nil {
		t.Fatalf("Select(%v) error: %v", ids, err)
	}
	return sel
}

// fakeRunner returns scripted results keyed by the program name and records
// every argv it was asked to run.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]StepResult
	calls   [][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]StepResult{}}
}

func (f *fakeRunner) on(program string, res StepResult) *fakeRunner {
	f.results[program] = res
	return f
}

func (f *fakeRunner) Run(_ context.Context, argv []string) StepResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, argv)
	if res, ok := f.results[argv[0]]; ok {
		return res
	}
	return StepResult{Status: StepOK}
}

func (f *fakeRunner) programs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

// scriptedAsker answers each field from a queue of values and records how
// many times each field was asked.
type scriptedAsker struct {
	answers map[string][]string
	skip    map[string]bool
	asked   map[string]int
}

func newScriptedAsker(answers map[string][]string, skip ...string) *scriptedAsker {
	a := &scriptedAsker{answers: answers, skip: map[string]bool{}, asked: map[string]int{}}
	for _, id := range skip {
		a.skip[id] = true
	}
	return a
}

func (a *scriptedAsker) ConfirmModule(_ context.Context, m *IntegrationModule) (bool, error) {
	return !a.skip[m.ID], nil
}

func (a *scriptedAsker) AskField(_ context.Context, _ *IntegrationModule, f AuthField, _ int) (string, error) {
	a.asked[f.Name]++
	q := a.answers[f.Name]
	if len(q) == 0 {
		return "", errors.New("no scripted answer for " + f.Name)
	}
	a.answers[f.Name] = q[1:]
	return q[0], nil
}

func lookPathMissing(string) (string, error) { return "", errors.New("not found") }

func lookPathFound(name string) (string, error) { return "/usr/bin/" + name, nil }
