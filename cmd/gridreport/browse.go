package main

import (
	"errors"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gridreport/internal/reportfmt"
	"gridreport/internal/ui"
)

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Page through a report tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowse,
	}
	cmd.Flags().String("locale", "", "dictionary to read (default from config)")
	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return errors.New("browse needs an interactive terminal, use print instead")
	}
	cfg, logger := settingsFrom(cmd)
	locale := cfg.Report.Locale
	if f := cmd.Flags().Lookup("locale"); f.Changed {
		locale = f.Value.String()
	}
	root, err := readReport(args[0], locale, logger)
	if err != nil {
		return err
	}
	model := ui.NewBrowserModel(filepath.Base(args[0]), root, reportfmt.Options{
		Color:        useColor(cfg.Print.Color, os.Stdout),
		ShowSeverity: cfg.Print.Severity,
	})
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
