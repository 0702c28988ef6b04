package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gridreport/internal/version"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridreport",
		Short: "Inspect and convert grid functional reports",
		Long: `gridreport reads the hierarchical functional reports written by grid
modeling tools, prints them, converts them between JSON and msgpack, and
migrates documents of the legacy reporter model.`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: setupSettings,
	}

	rootCmd.AddCommand(newPrintCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newLegacyCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "path to gridreport.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace|debug|info|warn|error)")
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
