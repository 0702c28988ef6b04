package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gridreport/internal/report"
	"gridreport/internal/version"
)

type versionPayload struct {
	Tool          string `json:"tool"`
	Version       string `json:"version"`
	ReportVersion string `json:"report_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show gridreport build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			switch strings.ToLower(format) {
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout())
				return nil
			case "json":
				return renderVersionJSON(cmd.OutOrStdout())
			}
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionPretty(out io.Writer) {
	fmt.Fprintf(out, "gridreport %s (report format %s)\n", version.Colored(), report.CurrentVersion)
	if c := strings.TrimSpace(version.GitCommit); c != "" {
		fmt.Fprintf(out, "commit: %s\n", c)
	}
	if d := strings.TrimSpace(version.BuildDate); d != "" {
		fmt.Fprintf(out, "built:  %s\n", d)
	}
}

func renderVersionJSON(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:          "gridreport",
		Version:       strings.TrimSpace(version.Version),
		ReportVersion: report.CurrentVersion,
		GitCommit:     strings.TrimSpace(version.GitCommit),
		BuildDate:     strings.TrimSpace(version.BuildDate),
	})
}
