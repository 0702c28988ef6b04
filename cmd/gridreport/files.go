package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gridreport/internal/report"
)

type reportFormat uint8

const (
	formatJSON reportFormat = iota
	formatBinary
)

func formatOf(path string) (reportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".mp", ".msgpack":
		return formatBinary, nil
	}
	return 0, fmt.Errorf("%w: %q (expected .json, .mp or .msgpack)", errUnsupportedFormat, path)
}

func readReport(path, locale string, logger *slog.Logger) (*report.Root, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	if format == formatJSON {
		return report.ReadFile(path, report.DeserializeOptions{Locale: locale, Logger: logger})
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	defer f.Close()
	root, err := report.DecodeBinary(f)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return root, nil
}

// writeReport writes root to path, or as JSON to stdout when path is empty.
func writeReport(stdout io.Writer, path string, root *report.Root, opts report.SerializeOptions) (err error) {
	if path == "" {
		return report.Serialize(stdout, root, opts)
	}
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	if format == formatJSON {
		return report.WriteFile(path, root, opts)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report %s: %w", path, cerr)
		}
	}()
	return report.EncodeBinary(f, root)
}

func serializeOptions(locale string, indent bool) report.SerializeOptions {
	opts := report.SerializeOptions{Locale: locale}
	if indent {
		opts.Indent = "  "
	}
	return opts
}
