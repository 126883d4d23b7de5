package system

import "github.com/PerryB-GIT/support-forge-app-sub000/internal/core"

// NewClaudeCode creates the Claude Code system.
func NewClaudeCode() *System {
	return &System{
		name:        "claude-code",
		displayName: "Claude Code",
		configPath:  core.DefaultConfigPath,
		configKey:   core.DefaultReservedKey,
		detectPaths: []string{"~/.claude"},
	}
}

func init() { Register(NewClaudeCode()) }
