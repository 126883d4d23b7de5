package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core/system"
	"github.com/PerryB-GIT/support-forge-app-sub000/internal/logging"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config   *core.ConfigManager
	settings *core.Settings
	catalog  *core.Catalog
	log      *zap.Logger
	closeLog func() error

	assistant   *system.System
	configPath  string // assistant config document
	reservedKey string
}

// newDeps loads settings, the catalog and the diagnostic logger. Callers
// must call close when done.
func newDeps(cmd *cobra.Command) (*deps, error) {
	config, err := core.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = settings.LogLevel
	}
	logCfg := logging.DefaultConfig(config.LogDir())
	logCfg.Level = level
	log, closeLog, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	catalogPath, _ := cmd.Flags().GetString("catalog")
	if catalogPath == "" {
		catalogPath = settings.CatalogPath
	}
	catalog, err := core.LoadCatalogFile(catalogPath)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	name, _ := cmd.Flags().GetString("assistant")
	if name == "" {
		name = settings.Assistant
	}
	assistant, err := system.Resolve(name)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	// --config wins over settings, settings over the assistant's own file.
	configPath, _ := cmd.Flags().GetString("config")
	switch {
	case configPath != "":
		configPath = core.ExpandPath(configPath)
	case settings.ConfigPath != "":
		configPath = settings.ResolvedConfigPath()
	default:
		configPath = assistant.ConfigPath()
	}
	reservedKey := settings.ReservedKey
	if reservedKey == "" {
		reservedKey = assistant.ConfigKey()
	}

	log.Debug("session started",
		zap.String("command", cmd.Name()),
		zap.String("version", Version),
		zap.String("assistant", assistant.Name()),
		zap.String("configPath", configPath),
		zap.Int("modules", len(catalog.Modules())))

	return &deps{
		config:      config,
		settings:    settings,
		catalog:     catalog,
		log:         log,
		closeLog:    closeLog,
		assistant:   assistant,
		configPath:  configPath,
		reservedKey: reservedKey,
	}, nil
}

func (d *deps) close() {
	if d.closeLog != nil {
		_ = d.closeLog()
	}
}

// engine builds a setup engine bound to the resolved config document.
func (d *deps) engine() *core.Engine {
	return core.NewEngine(core.EngineOptions{
		Catalog:     d.catalog,
		ConfigPath:  d.configPath,
		ReservedKey: d.reservedKey,
		Runner:      core.NewExecRunner(d.settings.Timeout()),
		Logger:      d.log,
	})
}

// updateChecker returns a checker for the configured release feed. An empty
// URL disables the check.
func (d *deps) updateChecker() *core.UpdateChecker {
	return core.NewUpdateChecker(d.settings.ResolvedUpdateURL())
}
