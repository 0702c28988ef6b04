package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredPlain(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = origVersion, origNoColor })
	color.NoColor = true

	tests := []struct {
		in   string
		want string
	}{
		{"0.3.0-dev", "0.3.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{" 2.0.0 ", "2.0.0"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with Version=%q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredEmitsEscapes(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = origVersion, origNoColor })
	color.NoColor = false

	Version = "1.2.3-rc.1"
	got := Colored()
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("Colored() = %q, want escape sequences", got)
	}
	if !strings.HasSuffix(got, "-rc.1") {
		t.Fatalf("Colored() = %q, want suffix -rc.1", got)
	}
}
