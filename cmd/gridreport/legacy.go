package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gridreport/internal/reporter"
)

func newLegacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy <file>",
		Short: "Migrate a legacy reporter model document (version 1.0)",
		Args:  cobra.ExactArgs(1),
		RunE:  runLegacy,
	}
	cmd.Flags().String("out", "", "output file (.json or .mp); JSON to stdout when empty")
	return cmd
}

func runLegacy(cmd *cobra.Command, args []string) error {
	cfg, logger := settingsFrom(cmd)

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open legacy report %s: %w", args[0], err)
	}
	defer f.Close()
	model, err := reporter.ReadJSON(f, logger)
	if err != nil {
		return fmt.Errorf("read legacy report %s: %w", args[0], err)
	}
	root, err := reporter.ToRoot(model, logger)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	return writeReport(cmd.OutOrStdout(), out, root, serializeOptions(cfg.Report.Locale, cfg.Report.Indent))
}
