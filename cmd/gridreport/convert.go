package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a report between JSON and msgpack",
		Long: `convert picks the codec from each file extension: .json for the
versioned JSON document, .mp or .msgpack for the binary payload.`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}
	cmd.Flags().String("locale", "", "dictionary to read and write (default from config)")
	cmd.Flags().String("format-version", "", "JSON document version to write (2.0|2.1)")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, logger := settingsFrom(cmd)
	locale := cfg.Report.Locale
	if f := cmd.Flags().Lookup("locale"); f.Changed {
		locale = f.Value.String()
	}

	root, err := readReport(args[0], locale, logger)
	if err != nil {
		return err
	}
	opts := serializeOptions(locale, cfg.Report.Indent)
	opts.Version, _ = cmd.Flags().GetString("format-version")
	if err := writeReport(cmd.OutOrStdout(), args[1], root, opts); err != nil {
		return err
	}
	logger.Info("report converted", slog.String("from", args[0]), slog.String("to", args[1]))
	return nil
}
