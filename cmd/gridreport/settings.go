package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gridreport/internal/config"
	"gridreport/internal/ctxlog"
)

type configKey struct{}

// setupSettings loads gridreport.toml, applies the global flags on top of it
// and attaches the config and a stderr logger to the command context.
func setupSettings(cmd *cobra.Command, _ []string) error {
	root := cmd.Root()

	cfgPath, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *config.Config
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err != nil {
			return fmt.Errorf("config %s: %w", cfgPath, err)
		}
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}

	if f := root.PersistentFlags().Lookup("color"); f != nil && f.Changed {
		cfg.Print.Color = f.Value.String()
	}
	if f := root.PersistentFlags().Lookup("log-level"); f != nil && f.Changed {
		cfg.Log.Level = f.Value.String()
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	switch cfg.Print.Color {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxlog.WithLogger(ctx, logger)
	ctx = context.WithValue(ctx, configKey{}, cfg)
	cmd.SetContext(ctx)
	return nil
}

func settingsFrom(cmd *cobra.Command) (*config.Config, *slog.Logger) {
	ctx := cmd.Context()
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		cfg = config.DefaultConfig()
	}
	return cfg, ctxlog.FromContext(ctx)
}

// useColor resolves the auto mode against out.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "auto":
		f, ok := out.(*os.File)
		return ok && isTerminal(f)
	}
	return false
}

// outputWidth returns width when set, otherwise the terminal width of out,
// or 0 when out is not a terminal.
func outputWidth(width int, out io.Writer) int {
	if width > 0 {
		return width
	}
	f, ok := out.(*os.File)
	if !ok || !isTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

var errUnsupportedFormat = errors.New("unsupported report format")
