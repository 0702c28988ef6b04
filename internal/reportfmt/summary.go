package reportfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gridreport/internal/report"
)

// Counts aggregates a report tree.
type Counts struct {
	Nodes       int
	MaxDepth    int
	Untagged    int
	MissingKeys int
	BySeverity  map[report.Severity]int
}

// Summary walks root once and counts nodes per severity.
func Summary(root *report.Node) Counts {
	c := Counts{BySeverity: map[report.Severity]int{}}
	if root == nil {
		return c
	}
	root.Walk(func(n *report.Node, depth int) bool {
		c.Nodes++
		c.MaxDepth = max(c.MaxDepth, depth)
		if sev, ok := n.Severity(); ok {
			c.BySeverity[sev]++
		} else {
			c.Untagged++
		}
		if _, ok := n.MessageTemplate(); !ok {
			c.MissingKeys++
		}
		return true
	})
	return c
}

var summaryOrder = []report.Severity{
	report.SeverityError,
	report.SeverityWarn,
	report.SeverityInfo,
	report.SeverityDebug,
	report.SeverityTrace,
}

func severityStyle(r *lipgloss.Renderer, sev report.Severity) lipgloss.Style {
	switch sev {
	case report.SeverityError:
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	case report.SeverityWarn:
		return r.NewStyle().Foreground(lipgloss.Color("3"))
	case report.SeverityInfo:
		return r.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return r.NewStyle().Foreground(lipgloss.Color("8"))
	}
}

// RenderSummary writes c as a short table. Severities with no nodes are
// left out.
func RenderSummary(w io.Writer, c Counts, colored bool) error {
	r := lipgloss.NewRenderer(w)
	if colored {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	row := func(label string, n int) string {
		return fmt.Sprintf("  %-10s %d", label, n)
	}

	var b strings.Builder
	b.WriteString(title.Render("summary"))
	b.WriteString("\n")
	b.WriteString(row("nodes", c.Nodes))
	b.WriteString("\n")
	b.WriteString(row("depth", c.MaxDepth))
	b.WriteString("\n")
	for _, sev := range summaryOrder {
		n := c.BySeverity[sev]
		if n == 0 {
			continue
		}
		b.WriteString(severityStyle(r, sev).Render(row(strings.ToLower(sev.String()), n)))
		b.WriteString("\n")
	}
	if c.Untagged > 0 {
		b.WriteString(row("untagged", c.Untagged))
		b.WriteString("\n")
	}
	if c.MissingKeys > 0 {
		b.WriteString(severityStyle(r, report.SeverityWarn).Render(row("missing", c.MissingKeys)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
