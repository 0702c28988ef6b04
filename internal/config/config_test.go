package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("Validate(DefaultConfig()) = %v", err)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[print]\nwidth = 100\nsummary = true\n\n[log]\nlevel = \"debug\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := DefaultConfig()
	want.Print.Width = 100
	want.Print.Summary = true
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"color", "[print]\ncolor = \"sometimes\"\n"},
		{"width", "[print]\nwidth = -1\n"},
		{"level", "[log]\nlevel = \"loud\"\n"},
		{"unknown key", "[report]\nlocal = \"fr\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			if _, err := LoadFromPath(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("LoadFromPath() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadRejectsBrokenTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[print\n")
	_, err := LoadFromPath(path)
	if err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("LoadFromPath() = %v, want parse error", err)
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Report.Locale = "fr"
	got := Merge(&Config{Print: PrintConfig{Color: "off", Severity: true}}, base)
	want := DefaultConfig()
	want.Report.Locale = "fr"
	want.Print.Color = "off"
	want.Print.Severity = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", slog.Level(-8)},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Errorf("ParseLogLevel(verbose) succeeded")
	}
}
