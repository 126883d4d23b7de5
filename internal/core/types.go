// Package core provides the setup engine for forge: the integration catalog,
// selection state, credential collection, configuration synthesis and the
// installation pipeline. It has zero UI dependencies and is independently
// testable.
package core

import "time"

// CatalogData is the decoded form of a catalog file before it is validated
// into a Catalog.
type CatalogData struct {
	Version       int                 `yaml:"version" json:"version"`
	Modules       []IntegrationModule `yaml:"modules" json:"modules"`
	Bundles       []Bundle            `yaml:"bundles" json:"bundles"`
	Skills        []Skill             `yaml:"skills,omitempty" json:"skills,omitempty"`
	SkillDriver   string              `yaml:"skillDriver,omitempty" json:"skillDriver,omitempty"`
	SkillInstall  []string            `yaml:"skillInstall,omitempty" json:"skillInstall,omitempty"`
	Prerequisites []Prerequisite      `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
}

// IntegrationModule is one installable connector.
type IntegrationModule struct {
	ID           string         `yaml:"id" json:"id"`
	Name         string         `yaml:"name" json:"name"`
	Description  string         `yaml:"description" json:"description"`
	Category     string         `yaml:"category" json:"category"`
	RequiresAuth bool           `yaml:"requiresAuth" json:"requiresAuth"`
	Auth         []AuthField    `yaml:"auth,omitempty" json:"auth,omitempty"`
	Platforms    []string       `yaml:"platforms,omitempty" json:"platforms,omitempty"` // GOOS values; empty = any
	Install      []string       `yaml:"install,omitempty" json:"install,omitempty"`     // verification/install argv
	PostInstall  []string       `yaml:"postInstall,omitempty" json:"postInstall,omitempty"`
	Config       map[string]any `yaml:"config" json:"config"` // template: command, args, env
	Docs         string         `yaml:"docs,omitempty" json:"docs,omitempty"`
}

// Field returns the declared auth field with the given name.
func (m *IntegrationModule) Field(name string) (AuthField, bool) {
	for _, f := range m.Auth {
		if f.Name == name {
			return f, true
		}
	}
	return AuthField{}, false
}

// SupportsPlatform reports whether the module can be installed on goos.
func (m *IntegrationModule) SupportsPlatform(goos string) bool {
	if len(m.Platforms) == 0 {
		return true
	}
	for _, p := range m.Platforms {
		if p == goos {
			return true
		}
	}
	return false
}

// AuthField is one credential a module needs.
type AuthField struct {
	Name       string  `yaml:"name" json:"name"`
	Label      string  `yaml:"label,omitempty" json:"label,omitempty"`
	Help       string  `yaml:"help,omitempty" json:"help,omitempty"`
	Secret     bool    `yaml:"secret,omitempty" json:"secret,omitempty"`
	MultiValue bool    `yaml:"multiValue,omitempty" json:"multiValue,omitempty"` // comma-separated list
	Default    *string `yaml:"default,omitempty" json:"default,omitempty"`       // nil = no default
}

// HasDefault reports whether the field declares a default value.
// An empty default is a declared default.
func (f AuthField) HasDefault() bool { return f.Default != nil }

// Prompt returns the label shown when asking for the field.
func (f AuthField) Prompt() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Bundle is a named, curated set of modules selected together.
type Bundle struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Modules     []string `yaml:"modules" json:"modules"`
}

// Skill is an assistant skill/plugin installed through the host driver program.
type Skill struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Source      string `yaml:"source" json:"source"`
}

// Prerequisite is a host capability probe.
type Prerequisite struct {
	Name       string   `yaml:"name" json:"name"`
	Command    []string `yaml:"command" json:"command"`
	MinVersion string   `yaml:"minVersion,omitempty" json:"minVersion,omitempty"`
	Required   bool     `yaml:"required" json:"required"`
	Hint       string   `yaml:"hint,omitempty" json:"hint,omitempty"`
}

// CredentialSet maps auth field names to collected values for one run.
type CredentialSet map[string]string

// MergeMode controls how resolved modules are merged into the document.
type MergeMode string

const (
	// MergeReplace rebuilds the reserved key from the current selection.
	MergeReplace MergeMode = "replace"
	// MergeAppend inserts or overwrites only the resolved modules.
	MergeAppend MergeMode = "append"
)

// OutcomeStatus is the terminal status of one attempted item.
type OutcomeStatus string

const (
	StatusReady          OutcomeStatus = "ready"
	StatusFailed         OutcomeStatus = "failed"
	StatusSkipped        OutcomeStatus = "skipped"
	StatusManualRequired OutcomeStatus = "manualRequired"
)

// ItemKind distinguishes module outcomes from skill outcomes.
type ItemKind string

const (
	ItemModule ItemKind = "module"
	ItemSkill  ItemKind = "skill"
)

// InstallationOutcome is the result of processing one module or skill.
type InstallationOutcome struct {
	ID            string        `json:"id"`
	Kind          ItemKind      `json:"kind"`
	Status        OutcomeStatus `json:"status"`
	Detail        string        `json:"detail,omitempty"`
	ManualCommand string        `json:"manualCommand,omitempty"`
	Hints         []string      `json:"hints,omitempty"`
	Duration      time.Duration `json:"durationNs,omitempty"`
}

// PrerequisiteCheckResult is the result of probing one host capability.
type PrerequisiteCheckResult struct {
	Name       string `json:"name"`
	Required   bool   `json:"required"`
	Found      bool   `json:"found"`
	Version    string `json:"version,omitempty"` // detected version, "" if absent or unparseable
	MinVersion string `json:"minVersion,omitempty"`
	Passed     bool   `json:"passed"`
	Detail     string `json:"detail,omitempty"`
	Hint       string `json:"hint,omitempty"`
}
