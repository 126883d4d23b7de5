// Package system describes the AI assistants forge can configure.
//
// A System knows where its assistant keeps the user-level config document,
// the top-level key it reads server entries from, and how to tell whether
// the assistant is installed on this machine.
package system

import (
	"fmt"
	"os"
	"strings"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

// DefaultName is the assistant configured when none is chosen.
const DefaultName = "claude-code"

// System is one configurable assistant.
type System struct {
	name        string
	displayName string
	configPath  string   // user-level config document (with ~ or $VAR)
	configKey   string   // top-level key holding server entries
	detectPaths []string // files/dirs indicating installation
}

func (s *System) Name() string        { return s.name }
func (s *System) DisplayName() string { return s.displayName }
func (s *System) ConfigKey() string   { return s.configKey }

// ConfigPath returns the config document path with ~ and $VARS expanded.
func (s *System) ConfigPath() string { return core.ExpandPath(s.configPath) }

// IsInstalled reports whether any detection path exists.
func (s *System) IsInstalled() bool {
	for _, p := range s.detectPaths {
		if _, err := os.Stat(core.ExpandPath(p)); err == nil {
			return true
		}
	}
	return false
}

// --- Registry ---

var systems []*System

// Register adds a system to the global registry.
func Register(s *System) { systems = append(systems, s) }

// All returns all registered systems.
func All() []*System { return systems }

// ByName returns the system with the given machine name, if registered.
func ByName(name string) (*System, bool) {
	for _, s := range systems {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Resolve returns the named system, or the default one for an empty name.
// Unknown names produce an error listing the valid ones.
func Resolve(name string) (*System, error) {
	if name == "" {
		name = DefaultName
	}
	if s, ok := ByName(name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown assistant %q; available: %s", name, strings.Join(Names(), ", "))
}

// Names returns the machine names of all registered systems.
func Names() []string {
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.name
	}
	return names
}

// Detect returns all installed systems.
func Detect() []*System {
	var detected []*System
	for _, s := range systems {
		if s.IsInstalled() {
			detected = append(detected, s)
		}
	}
	return detected
}
