package core

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	envFileName = ".env.forge"
)

// EnvSource indicates where a credential value was resolved from.
type EnvSource string

const (
	EnvSourceProcess EnvSource = "process"
	EnvSourceProject EnvSource = "project"
	EnvSourceGlobal  EnvSource = "global"
)

// EnvResolver looks up credential values in the environment.
// It follows the precedence: process env > project .env.forge > global .env.forge.
type EnvResolver struct {
	projectDir string
	globalDir  string // ~/.forge/
}

// NewEnvResolver creates an EnvResolver for the given project directory.
// globalDir defaults to ~/.forge/ if empty.
func NewEnvResolver(projectDir, globalDir string) *EnvResolver {
	if globalDir == "" {
		home, _ := os.UserHomeDir()
		globalDir = filepath.Join(home, settingsDirName)
	}
	return &EnvResolver{
		projectDir: projectDir,
		globalDir:  globalDir,
	}
}

// Lookup returns the value of name and where it was found.
//
// Precedence (highest to lowest):
//  1. Process environment (os.LookupEnv)
//  2. Project .env.forge (in projectDir)
//  3. Global ~/.forge/.env.forge
func (r *EnvResolver) Lookup(name string) (string, EnvSource, bool) {
	if val, ok := os.LookupEnv(name); ok {
		return val, EnvSourceProcess, true
	}
	if r.projectDir != "" {
		if val, ok := parseEnvFile(filepath.Join(r.projectDir, envFileName))[name]; ok {
			return val, EnvSourceProject, true
		}
	}
	if val, ok := parseEnvFile(filepath.Join(r.globalDir, envFileName))[name]; ok {
		return val, EnvSourceGlobal, true
	}
	return "", "", false
}

// parseEnvFile parses a .env file and returns key-value pairs.
// Returns an empty map if the file does not exist or cannot be read.
// Supports:
//   - KEY=VALUE
//   - KEY="VALUE" (strips outer double quotes)
//   - KEY='VALUE' (strips outer single quotes)
//   - Lines starting with # are comments
//   - export KEY=VALUE
func parseEnvFile(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	env := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimPrefix(line, "export ")

		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])

		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') ||
				(val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}

		if key != "" {
			env[key] = val
		}
	}

	return env
}

// EnvAsker answers auth fields from the environment and .env.forge files,
// delegating to Next for anything it cannot resolve. With a nil Next,
// unresolved fields behave like a BatchAsker with no values.
type EnvAsker struct {
	Resolver *EnvResolver
	Next     Asker
	Log      *zap.Logger
}

// NewEnvAsker creates an EnvAsker over resolver with an optional fallback.
func NewEnvAsker(resolver *EnvResolver, next Asker, log *zap.Logger) *EnvAsker {
	if next == nil {
		next = NewBatchAsker(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EnvAsker{Resolver: resolver, Next: next, Log: log}
}

// ConfirmModule confirms without asking when every field of m resolves from
// the environment; otherwise the fallback decides.
func (a *EnvAsker) ConfirmModule(ctx context.Context, m *IntegrationModule) (bool, error) {
	for _, f := range m.Auth {
		if _, _, ok := a.Resolver.Lookup(f.Name); !ok && !f.HasDefault() {
			return a.Next.ConfirmModule(ctx, m)
		}
	}
	return true, nil
}

// AskField returns the environment value on the first attempt. Once a value
// has been rejected as empty, the fallback asker is consulted.
func (a *EnvAsker) AskField(ctx context.Context, m *IntegrationModule, f AuthField, attempt int) (string, error) {
	if attempt == 0 {
		if val, src, ok := a.Resolver.Lookup(f.Name); ok && strings.TrimSpace(val) != "" {
			a.Log.Debug("credential resolved from environment",
				zap.String("module", m.ID), zap.String("field", f.Name), zap.String("source", string(src)))
			return val, nil
		}
	}
	return a.Next.AskField(ctx, m, f, attempt)
}
