package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"gridreport/internal/report"
)

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge several reports under a new root",
		Long: `merge reads every input concurrently and includes the top-level nodes
of each one, in argument order, under a new root node.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMerge,
	}
	cmd.Flags().String("out", "", "output file (.json or .mp); JSON to stdout when empty")
	cmd.Flags().String("key", "merged", "message key of the new root")
	cmd.Flags().String("title", "Merged reports", "message template of the new root")
	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, logger := settingsFrom(cmd)
	key, _ := cmd.Flags().GetString("key")
	title, _ := cmd.Flags().GetString("title")

	root, err := report.NewRootAdder().
		WithLogger(logger).
		WithKey(key).
		WithMessageTemplate(title).
		WithValue("count", len(args)).
		Build()
	if err != nil {
		return err
	}

	builders := make([]report.Builder, 0, len(args))
	for _, path := range args {
		builders = append(builders, func(ctx context.Context) (*report.Root, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return readReport(path, cfg.Report.Locale, logger)
		})
	}
	if err := report.Gather(cmd.Context(), root.Node, builders...); err != nil {
		return err
	}
	logger.Info("reports merged", slog.Int("inputs", len(args)), slog.Int("dictionary", root.Dictionary().Len()))

	out, _ := cmd.Flags().GetString("out")
	return writeReport(cmd.OutOrStdout(), out, root, serializeOptions(cfg.Report.Locale, cfg.Report.Indent))
}
