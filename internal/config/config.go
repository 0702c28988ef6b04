package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"gridreport/internal/report"
)

// FileName is the name of the gridreport configuration file.
const FileName = "gridreport.toml"

// Config holds all gridreport configuration.
type Config struct {
	Report ReportConfig `toml:"report"`
	Print  PrintConfig  `toml:"print"`
	Log    LogConfig    `toml:"log"`
}

// ReportConfig controls reading and writing report documents.
type ReportConfig struct {
	Locale string `toml:"locale"`
	Indent bool   `toml:"indent"`
}

// PrintConfig controls terminal rendering.
type PrintConfig struct {
	Color    string `toml:"color"` // auto|on|off
	Width    int    `toml:"width"` // 0 - terminal width
	Summary  bool   `toml:"summary"`
	Severity bool   `toml:"severity"`
}

// LogConfig controls diagnostics of the tool itself.
type LogConfig struct {
	Level string `toml:"level"`
}

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidColorModes lists the accepted values of [print].color.
var ValidColorModes = []string{"auto", "on", "off"}

// DefaultConfig returns configuration with defaults for every field.
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{Locale: report.DefaultLocale},
		Print:  PrintConfig{Color: "auto"},
		Log:    LogConfig{Level: "warn"},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads the nearest gridreport.toml above workDir, falling back to
// defaults when there is none.
func Load(workDir string) (*Config, error) {
	path, ok, err := Find(workDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads config from a specific path, merges it over defaults and
// validates the result. A missing file yields defaults.
func LoadFromPath(path string) (*Config, error) {
	loaded := &Config{}
	meta, err := toml.DecodeFile(path, loaded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return merged, nil
}

// Merge returns a new Config with non-zero fields of loaded taking precedence
// over defaults. Booleans are switched on by either side.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Report: ReportConfig{
			Locale: orString(loaded.Report.Locale, defaults.Report.Locale),
			Indent: loaded.Report.Indent || defaults.Report.Indent,
		},
		Print: PrintConfig{
			Color:    orString(loaded.Print.Color, defaults.Print.Color),
			Width:    orInt(loaded.Print.Width, defaults.Print.Width),
			Summary:  loaded.Print.Summary || defaults.Print.Summary,
			Severity: loaded.Print.Severity || defaults.Print.Severity,
		},
		Log: LogConfig{
			Level: orString(loaded.Log.Level, defaults.Log.Level),
		},
	}
}

func orString(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !slices.Contains(ValidColorModes, cfg.Print.Color) {
		return fmt.Errorf("%w: [print].color must be one of %v, got %q",
			ErrInvalidConfig, ValidColorModes, cfg.Print.Color)
	}
	if cfg.Print.Width < 0 {
		return fmt.Errorf("%w: [print].width must be non-negative, got %d",
			ErrInvalidConfig, cfg.Print.Width)
	}
	if _, err := ParseLogLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: [log].level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ParseLogLevel converts a level name to a slog level. "trace" maps below
// debug.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return slog.Level(-8), nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %q (expected: trace|debug|info|warn|error)", s)
}
