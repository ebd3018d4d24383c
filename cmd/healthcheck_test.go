package cmd

import (
	"strings"
	"testing"
)

func TestHealthcheckCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, dir, "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Health check passed", "No mood entries yet", "No emotion records yet"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHealthcheckCommand_WithData(t *testing.T) {
	dir := t.TempDir()

	if _, err := runCommand(t, dir, "entry", "add", "--video", "4"); err != nil {
		t.Fatalf("entry add failed: %v", err)
	}
	if _, err := runCommand(t, dir, "analyze", "text", "great", "--save"); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	out, err := runCommand(t, dir, "--verbose", "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Found 1 mood entry", "Found 1 record(s) in 1 session(s)", "Average mood: 4", "Found 2 stored key(s)", "emotionLogs: ", "teamPulseData: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHealthcheckCommand_BadConfig(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "--store", "nope", "healthcheck")
	if err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestHealthcheckCommand_ConfigFlag(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCommand(t, dir, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	out, err := runCommand(t, dir, "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration file found") {
		t.Errorf("--config file not detected:\n%s", out)
	}
}
