package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigManager_DefaultSettings(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	s, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s == nil {
		t.Fatal("Load() returned nil settings")
	}
	if s.ResolvedReservedKey() != DefaultReservedKey {
		t.Errorf("ResolvedReservedKey() = %q", s.ResolvedReservedKey())
	}
	if s.Timeout() != 120*time.Second {
		t.Errorf("Timeout() = %v, want 2m", s.Timeout())
	}
	if s.ResolvedUpdateURL() != DefaultUpdateURL {
		t.Errorf("ResolvedUpdateURL() = %q", s.ResolvedUpdateURL())
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".claude", "config.json"); s.ResolvedConfigPath() != want {
		t.Errorf("ResolvedConfigPath() = %q, want %q", s.ResolvedConfigPath(), want)
	}
}

func TestConfigManager_LoadJSONC(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigManagerWithDir(dir)
	content := `{
  // where the assistant reads its servers
  "configPath": "/tmp/assistant.json",
  "reservedKey": "context_servers",
  "commandTimeout": "45s",
  "disableUpdateCheck": true, /* offline machine */
}
`
	if err := os.WriteFile(cm.SettingsPath(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.ResolvedConfigPath() != "/tmp/assistant.json" {
		t.Errorf("ResolvedConfigPath() = %q", s.ResolvedConfigPath())
	}
	if s.ResolvedReservedKey() != "context_servers" {
		t.Errorf("ResolvedReservedKey() = %q", s.ResolvedReservedKey())
	}
	if s.Timeout() != 45*time.Second {
		t.Errorf("Timeout() = %v", s.Timeout())
	}
	if s.ResolvedUpdateURL() != "" {
		t.Errorf("ResolvedUpdateURL() = %q, want disabled", s.ResolvedUpdateURL())
	}
}

func TestConfigManager_LoadInvalid(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())
	if err := os.WriteFile(cm.SettingsPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cm.Load(); err == nil {
		t.Error("expected error for invalid settings")
	}
}

func TestConfigManager_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".forge")
	cm := NewConfigManagerWithDir(dir)

	in := &Settings{CatalogPath: "~/catalog.yaml", LogLevel: "debug", CommandTimeout: "2m"}
	if err := cm.Save(in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := cm.Load()
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Errorf("loaded %+v, want %+v", out, in)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != settingsFileName {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}
}

func TestSettings_InvalidTimeoutFallsBack(t *testing.T) {
	for _, v := range []string{"soon", "-5s", "0s"} {
		s := &Settings{CommandTimeout: v}
		if s.Timeout() != defaultCommandTimeout {
			t.Errorf("Timeout(%q) = %v, want default", v, s.Timeout())
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	t.Setenv("FORGE_TEST_DIR", "/opt/forge")

	tests := []struct{ in, want string }{
		{"~/x/config.json", filepath.Join(home, "x", "config.json")},
		{"~", home},
		{"$FORGE_TEST_DIR/config.json", "/opt/forge/config.json"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
