package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tailscale/hujson"
)

const (
	settingsDirName  = ".forge"
	settingsFileName = "settings.json"

	// DefaultReservedKey is the top-level document key holding module configs.
	DefaultReservedKey = "mcpServers"
	// DefaultConfigPath is the assistant config file forge writes to.
	DefaultConfigPath = "~/.claude/config.json"
	// DefaultUpdateURL reports the latest released forge version.
	DefaultUpdateURL = "https://releases.support-forge.dev/forge/latest.json"

	defaultCommandTimeout = 120 * time.Second
)

// Settings are forge's own preferences, stored as JSONC in
// ~/.forge/settings.json. Every field is optional.
type Settings struct {
	Assistant      string `json:"assistant,omitempty"`      // target assistant, e.g. "cursor"
	ConfigPath     string `json:"configPath,omitempty"`     // assistant config document
	ReservedKey    string `json:"reservedKey,omitempty"`    // top-level key for module configs
	CatalogPath    string `json:"catalogPath,omitempty"`    // catalog override; empty = built-in
	CommandTimeout string `json:"commandTimeout,omitempty"` // Go duration, e.g. "90s"
	UpdateURL      string `json:"updateURL,omitempty"`
	LogLevel       string `json:"logLevel,omitempty"` // debug, info, warn, error
	DisableUpdate  bool   `json:"disableUpdateCheck,omitempty"`
}

// ResolvedConfigPath returns the assistant config path with ~ and $VARS expanded.
func (s *Settings) ResolvedConfigPath() string {
	if s.ConfigPath == "" {
		return expandPath(DefaultConfigPath)
	}
	return expandPath(s.ConfigPath)
}

// ResolvedReservedKey returns the reserved key, falling back to the default.
func (s *Settings) ResolvedReservedKey() string {
	if s.ReservedKey == "" {
		return DefaultReservedKey
	}
	return s.ReservedKey
}

// Timeout returns the per-command timeout. Invalid or non-positive values
// fall back to the default.
func (s *Settings) Timeout() time.Duration {
	if s.CommandTimeout == "" {
		return defaultCommandTimeout
	}
	d, err := time.ParseDuration(s.CommandTimeout)
	if err != nil || d <= 0 {
		return defaultCommandTimeout
	}
	return d
}

// ResolvedUpdateURL returns the update endpoint, or "" when disabled.
func (s *Settings) ResolvedUpdateURL() string {
	if s.DisableUpdate {
		return ""
	}
	if s.UpdateURL == "" {
		return DefaultUpdateURL
	}
	return s.UpdateURL
}

// ConfigManager handles reading and writing forge settings.
type ConfigManager struct {
	configDir string
	mu        sync.RWMutex
}

// NewConfigManager creates a ConfigManager using the default directory (~/.forge/).
func NewConfigManager() (*ConfigManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &ConfigManager{
		configDir: filepath.Join(home, settingsDirName),
	}, nil
}

// NewConfigManagerWithDir creates a ConfigManager using a custom directory.
// Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{configDir: dir}
}

// ConfigDir returns the settings directory path.
func (cm *ConfigManager) ConfigDir() string {
	return cm.configDir
}

// SettingsPath returns the full path to the settings file.
func (cm *ConfigManager) SettingsPath() string {
	return filepath.Join(cm.configDir, settingsFileName)
}

// LogDir returns the directory diagnostic logs are written to.
func (cm *ConfigManager) LogDir() string {
	return filepath.Join(cm.configDir, "logs")
}

// Load reads settings from disk. Comments and trailing commas are allowed.
// Returns default settings if the file doesn't exist.
func (cm *ConfigManager) Load() (*Settings, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(std, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &s, nil
}

// Save writes settings to disk, creating the directory if needed.
func (cm *ConfigManager) Save(s *Settings) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := writeFileAtomic(cm.SettingsPath(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
