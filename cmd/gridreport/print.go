package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridreport/internal/report"
	"gridreport/internal/reportfmt"
)

func newPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Print a report tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrint,
	}
	cmd.Flags().String("locale", "", "dictionary to read (default from config)")
	cmd.Flags().Int("width", 0, "maximum line width, 0 for terminal width")
	cmd.Flags().Bool("summary", false, "print severity counts after the tree")
	cmd.Flags().Bool("severity", false, "prefix messages with their severity")
	cmd.Flags().String("min-severity", "", "hide nodes below this severity (trace|debug|info|warn|error)")
	return cmd
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, logger := settingsFrom(cmd)

	locale := cfg.Report.Locale
	if f := cmd.Flags().Lookup("locale"); f.Changed {
		locale = f.Value.String()
	}
	width := cfg.Print.Width
	if cmd.Flags().Changed("width") {
		w, err := cmd.Flags().GetInt("width")
		if err != nil {
			return fmt.Errorf("failed to get width flag: %w", err)
		}
		width = w
	}
	summary := cfg.Print.Summary
	if cmd.Flags().Changed("summary") {
		summary, _ = cmd.Flags().GetBool("summary")
	}
	showSeverity := cfg.Print.Severity
	if cmd.Flags().Changed("severity") {
		showSeverity, _ = cmd.Flags().GetBool("severity")
	}
	var minSeverity report.Severity
	if s, _ := cmd.Flags().GetString("min-severity"); s != "" {
		sev, err := report.ParseSeverity(s)
		if err != nil {
			return err
		}
		minSeverity = sev
	}

	root, err := readReport(args[0], locale, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colored := useColor(cfg.Print.Color, out)
	opts := reportfmt.Options{
		Color:        colored,
		Width:        outputWidth(width, out),
		ShowSeverity: showSeverity,
		MinSeverity:  minSeverity,
	}
	if err := reportfmt.Pretty(out, root.Node, opts); err != nil {
		return err
	}
	if summary {
		fmt.Fprintln(out)
		return reportfmt.RenderSummary(out, reportfmt.Summary(root.Node), colored)
	}
	return nil
}
