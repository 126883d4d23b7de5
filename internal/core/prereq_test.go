package core

import (
	"context"
	"errors"
	"testing"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"v18.19.0", "18.19.0"},
		{"Python 3.11.4", "3.11.4"},
		{"git version 2.39.3 (Apple Git-145)", "2.39.3"},
		{"uv 0.4.18 (7b55e9790 2024-10-01)", "0.4.18"},
		{"10.2", "10.2"},
		{"1.0.33 (Claude Code)", "1.0.33"},
		{"no version here", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractVersion(tt.output); got != tt.want {
			t.Errorf("ExtractVersion(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		minimum  string
		want     bool
	}{
		{"equal", "18.0.0", "18.0.0", true},
		{"newer major", "20.1.0", "18.0.0", true},
		{"older major", "16.20.2", "18.0.0", false},
		{"minor compared numerically", "3.9.0", "3.10.0", false},
		{"minor newer", "3.12.1", "3.10.0", true},
		{"patch older", "2.29.9", "2.30.0", false},
		{"two-part version", "10.2", "9.0.0", true},
		{"no minimum", "1.0.0", "", true},
		{"missing version passes", "", "18.0.0", true},
		{"unparseable version passes", "weird", "18.0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := MeetsMinimum(tt.detected, tt.minimum)
			if got != tt.want {
				t.Errorf("MeetsMinimum(%q, %q) = %v, want %v", tt.detected, tt.minimum, got, tt.want)
			}
		})
	}
}

func TestVerifier_Verify(t *testing.T) {
	prereqs := []Prerequisite{
		{Name: "node", Command: []string{"node", "--version"}, MinVersion: "18.0.0", Required: true},
		{Name: "npm", Command: []string{"npm", "--version"}, MinVersion: "9.0.0", Required: true},
		{Name: "uv", Command: []string{"uv", "--version"}, Required: false},
		{Name: "odd", Command: []string{"odd", "--version"}, MinVersion: "1.0.0", Required: true},
	}
	runner := newFakeRunner().
		on("node", StepResult{Status: StepOK, Output: "v16.20.2"}).
		on("npm", StepResult{Status: StepOK, Output: "10.2.4"}).
		on("uv", StepResult{Status: StepNotFound, ExitCode: -1}).
		on("odd", StepResult{Status: StepOK, Output: "custom build"})

	report := NewVerifier(runner, nil).Verify(context.Background(), prereqs)

	if report.Ready {
		t.Error("Ready = true with node below minimum")
	}
	if len(report.Results) != 4 {
		t.Fatalf("got %d results, want 4", len(report.Results))
	}

	node := report.Results[0]
	if node.Passed || !node.Found || node.Version != "16.20.2" {
		t.Errorf("node = %+v", node)
	}
	if !report.Results[1].Passed {
		t.Errorf("npm = %+v", report.Results[1])
	}
	uv := report.Results[2]
	if uv.Found || uv.Passed {
		t.Errorf("uv = %+v", uv)
	}
	if !report.Results[3].Passed {
		t.Errorf("unparseable version should pass, got %+v", report.Results[3])
	}

	blocking := report.Blocking()
	if len(blocking) != 1 || blocking[0].Name != "node" {
		t.Errorf("Blocking() = %+v, want only node", blocking)
	}
	advisory := report.Advisory()
	if len(advisory) != 1 || advisory[0].Name != "uv" {
		t.Errorf("Advisory() = %+v, want only uv", advisory)
	}

	var pe *PrerequisiteError
	if !errors.As(report.Err(), &pe) || len(pe.Failed) != 1 {
		t.Errorf("Err() = %v", report.Err())
	}
}

func TestVerifier_OptionalFailureDoesNotBlock(t *testing.T) {
	prereqs := []Prerequisite{
		{Name: "node", Command: []string{"node", "--version"}, Required: true},
		{Name: "uv", Command: []string{"uv", "--version"}},
	}
	runner := newFakeRunner().
		on("node", StepResult{Status: StepOK, Output: "v20.0.0"}).
		on("uv", StepResult{Status: StepFailed, ExitCode: 1})

	report := NewVerifier(runner, nil).Verify(context.Background(), prereqs)
	if !report.Ready {
		t.Error("optional failure blocked readiness")
	}
	if report.Err() != nil {
		t.Errorf("Err() = %v, want nil", report.Err())
	}
}

func TestVerifier_NonZeroExitFails(t *testing.T) {
	prereqs := []Prerequisite{{Name: "git", Command: []string{"git", "--version"}, Required: true}}
	runner := newFakeRunner().on("git", StepResult{Status: StepFailed, ExitCode: 128, Output: "2.40.0"})

	report := NewVerifier(runner, nil).Verify(context.Background(), prereqs)
	if report.Ready || report.Results[0].Passed {
		t.Errorf("non-zero exit should fail: %+v", report.Results[0])
	}
}
