package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

func strPtr(s string) *string { return &s }

func TestConsoleAsker_AskField(t *testing.T) {
	var out bytes.Buffer
	a := newConsoleAsker(strings.NewReader("ghp_abc\r\n"), &out)
	m := &core.IntegrationModule{ID: "github", Name: "GitHub"}
	f := core.AuthField{Name: "GITHUB_TOKEN", Label: "GitHub token", Help: "Create one at github.com/settings/tokens", Secret: true}

	got, err := a.AskField(context.Background(), m, f, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ghp_abc" {
		t.Errorf("AskField() = %q", got)
	}
	if !strings.Contains(out.String(), "GitHub token") || !strings.Contains(out.String(), "github.com/settings/tokens") {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestConsoleAsker_SecretFlagReachesPrompt(t *testing.T) {
	secrets := map[string]bool{}
	a := &ConsoleAsker{out: io.Discard, ask: func(_ context.Context, prompt string, secret bool) (string, error) {
		secrets[strings.TrimSpace(prompt)] = secret
		return "v", nil
	}}

	m := &core.IntegrationModule{ID: "x"}
	if _, err := a.AskField(context.Background(), m, core.AuthField{Name: "KEY", Secret: true}, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := a.AskField(context.Background(), m, core.AuthField{Name: "HOST"}, 0); err != nil {
		t.Fatal(err)
	}
	if !secrets["KEY:"] || secrets["HOST:"] {
		t.Errorf("secret flags = %v, want only KEY masked", secrets)
	}
}

func TestConsoleAsker_PromptShowsDefaultAndRetry(t *testing.T) {
	var out bytes.Buffer
	a := newConsoleAsker(strings.NewReader("\n"), &out)
	f := core.AuthField{Name: "HOST", Default: strPtr("localhost"), MultiValue: true}

	if _, err := a.AskField(context.Background(), &core.IntegrationModule{ID: "x"}, f, 1); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, want := range []string{"[localhost]", "comma-separated", "HOST is required"} {
		if !strings.Contains(s, want) {
			t.Errorf("prompt %q missing %q", s, want)
		}
	}
}

func TestConsoleAsker_EOF(t *testing.T) {
	a := newConsoleAsker(strings.NewReader(""), io.Discard)
	_, err := a.AskField(context.Background(), &core.IntegrationModule{ID: "x"}, core.AuthField{Name: "K"}, 0)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want unexpected EOF", err)
	}
}

func TestConsoleAsker_LastLineWithoutNewline(t *testing.T) {
	a := newConsoleAsker(strings.NewReader("value"), io.Discard)
	got, err := a.AskField(context.Background(), &core.IntegrationModule{ID: "x"}, core.AuthField{Name: "K"}, 0)
	if err != nil || got != "value" {
		t.Errorf("AskField() = %q, %v", got, err)
	}
}

func TestConsoleAsker_Confirm(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"\n", true, true},
		{"\n", false, false},
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"maybe\nno\n", true, false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		a := newConsoleAsker(strings.NewReader(tt.input), &out)
		got, err := a.Confirm(context.Background(), "Continue?", tt.def)
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q, %v) = %v, want %v", tt.input, tt.def, got, tt.want)
		}
	}
}

func TestConsoleAsker_ConfirmModule(t *testing.T) {
	var out bytes.Buffer
	a := newConsoleAsker(strings.NewReader("n\n"), &out)
	ok, err := a.ConfirmModule(context.Background(), &core.IntegrationModule{ID: "slack", Name: "Slack", Docs: "https://api.slack.com/apps"})
	if err != nil || ok {
		t.Errorf("ConfirmModule() = %v, %v; want false", ok, err)
	}
	if !strings.Contains(out.String(), "Slack") || !strings.Contains(out.String(), "api.slack.com") {
		t.Errorf("output = %q", out.String())
	}
}

func TestConsoleAsker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := newConsoleAsker(strings.NewReader("y\n"), io.Discard)
	if _, err := a.ConfirmModule(ctx, &core.IntegrationModule{ID: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// The console asker drives the real collector end to end.
func TestConsoleAsker_WithCollector(t *testing.T) {
	cat := wizardCatalog(t)
	sel := core.NewSelection(cat)
	if err := sel.Select("files", "tracker"); err != nil {
		t.Fatal(err)
	}

	a := newConsoleAsker(strings.NewReader("y\n\ntok-1\n"), io.Discard)
	res, err := core.NewCollector(cat, nil).Collect(context.Background(), sel, a)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if res.Credentials["TRACKER_TOKEN"] != "tok-1" {
		t.Errorf("credentials = %v", res.Credentials)
	}
}
