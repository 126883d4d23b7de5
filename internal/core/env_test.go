package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, envFileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// parseEnvFile tests
// ---------------------------------------------------------------------------

func TestParseEnvFile_BasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "POSTGRES_URL=postgres://localhost/mydb\nAPI_KEY=abc123\n")

	env := parseEnvFile(filepath.Join(dir, envFileName))

	if env["POSTGRES_URL"] != "postgres://localhost/mydb" {
		t.Errorf("POSTGRES_URL = %q, want \"postgres://localhost/mydb\"", env["POSTGRES_URL"])
	}
	if env["API_KEY"] != "abc123" {
		t.Errorf("API_KEY = %q, want \"abc123\"", env["API_KEY"])
	}
}

func TestParseEnvFile_QuotedValues(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, `DOUBLE="hello world"
SINGLE='hello world'
UNQUOTED=hello world
`)

	env := parseEnvFile(filepath.Join(dir, envFileName))

	for _, k := range []string{"DOUBLE", "SINGLE", "UNQUOTED"} {
		if env[k] != "hello world" {
			t.Errorf("%s = %q, want \"hello world\"", k, env[k])
		}
	}
}

func TestParseEnvFile_CommentsBlanksAndExport(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, `# comment
KEY1=val1

export KEY2=val2
INVALID_LINE_NO_EQUALS
`)

	env := parseEnvFile(filepath.Join(dir, envFileName))

	if len(env) != 2 {
		t.Fatalf("len(env) = %d, want 2", len(env))
	}
	if env["KEY1"] != "val1" || env["KEY2"] != "val2" {
		t.Errorf("env = %v", env)
	}
}

func TestParseEnvFile_NotExists(t *testing.T) {
	if env := parseEnvFile("/nonexistent/path/.env.forge"); env != nil {
		t.Errorf("expected nil, got %v", env)
	}
}

// ---------------------------------------------------------------------------
// EnvResolver tests
// ---------------------------------------------------------------------------

func TestEnvResolver_Precedence(t *testing.T) {
	projectDir := t.TempDir()
	globalDir := t.TempDir()
	writeEnvFile(t, projectDir, "FORGE_TEST_A=from-project\nFORGE_TEST_B=from-project\n")
	writeEnvFile(t, globalDir, "FORGE_TEST_A=from-global\nFORGE_TEST_B=from-global\nFORGE_TEST_C=from-global\n")
	t.Setenv("FORGE_TEST_A", "from-process")

	r := NewEnvResolver(projectDir, globalDir)

	tests := []struct {
		name    string
		wantVal string
		wantSrc EnvSource
	}{
		{"FORGE_TEST_A", "from-process", EnvSourceProcess},
		{"FORGE_TEST_B", "from-project", EnvSourceProject},
		{"FORGE_TEST_C", "from-global", EnvSourceGlobal},
	}
	for _, tt := range tests {
		val, src, ok := r.Lookup(tt.name)
		if !ok {
			t.Errorf("%s not found", tt.name)
			continue
		}
		if val != tt.wantVal || src != tt.wantSrc {
			t.Errorf("%s = %q from %s, want %q from %s", tt.name, val, src, tt.wantVal, tt.wantSrc)
		}
	}

	if _, _, ok := r.Lookup("FORGE_TEST_MISSING"); ok {
		t.Error("missing var reported as found")
	}
}

// ---------------------------------------------------------------------------
// EnvAsker tests
// ---------------------------------------------------------------------------

func TestEnvAsker_ResolvesFromEnvFile(t *testing.T) {
	c := testCatalog(t)
	projectDir := t.TempDir()
	writeEnvFile(t, projectDir, "PATHS=/srv/a,/srv/b\n")

	asker := NewEnvAsker(NewEnvResolver(projectDir, t.TempDir()), nil, nil)
	sel := testSelection(t, c, "gamma")

	res, err := NewCollector(c, nil).Collect(context.Background(), sel, asker)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if res.Credentials["PATHS"] != "/srv/a,/srv/b" {
		t.Errorf("PATHS = %q", res.Credentials["PATHS"])
	}
}

func TestEnvAsker_FallsBackToNext(t *testing.T) {
	c := testCatalog(t)
	next := newScriptedAsker(map[string][]string{"HOST": {"from-prompt"}})
	t.Setenv("API_KEY", "from-env")

	asker := NewEnvAsker(NewEnvResolver(t.TempDir(), t.TempDir()), next, nil)
	sel := testSelection(t, c, "delta")

	res, err := NewCollector(c, nil).Collect(context.Background(), sel, asker)
	if err != nil {
		t.Fatal(err)
	}
	if res.Credentials["API_KEY"] != "from-env" {
		t.Errorf("API_KEY = %q", res.Credentials["API_KEY"])
	}
	if res.Credentials["HOST"] != "from-prompt" {
		t.Errorf("HOST = %q", res.Credentials["HOST"])
	}
	if next.asked["API_KEY"] != 0 {
		t.Error("fallback asker was asked for a value the environment supplied")
	}
}

func TestEnvAsker_MissingWithoutFallback(t *testing.T) {
	c := testCatalog(t)
	asker := NewEnvAsker(NewEnvResolver(t.TempDir(), t.TempDir()), nil, nil)
	sel := testSelection(t, c, "beta")

	_, err := NewCollector(c, nil).Collect(context.Background(), sel, asker)
	if !errors.Is(err, ErrFieldRequired) {
		t.Errorf("err = %v, want ErrFieldRequired", err)
	}
}
