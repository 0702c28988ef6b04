package reportfmt

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"gridreport/internal/report"
)

// Options configures terminal rendering of report trees.
type Options struct {
	Color        bool
	Width        int // maximum line width in display cells, 0 - unlimited
	ShowSeverity bool
	// MinSeverity hides nodes below it unless a descendant is kept. Nodes
	// without a severity count as Info. Zero shows everything.
	MinSeverity report.Severity
}

type palette struct {
	sev  map[report.Severity]*color.Color
	fold *color.Color
}

func newPalette(enabled bool) *palette {
	if !enabled {
		return nil
	}
	p := &palette{
		sev: map[report.Severity]*color.Color{
			report.SeverityTrace: color.New(color.FgHiBlack),
			report.SeverityDebug: color.New(color.FgHiBlack),
			report.SeverityInfo:  color.New(color.Reset),
			report.SeverityWarn:  color.New(color.FgYellow),
			report.SeverityError: color.New(color.FgRed, color.Bold),
		},
		fold: color.New(color.FgCyan, color.Bold),
	}
	for _, c := range p.sev {
		c.EnableColor()
	}
	p.fold.EnableColor()
	return p
}

// Pretty writes the tree rooted at root in the same shape as Node.Print.
func Pretty(w io.Writer, root *report.Node, opts Options) error {
	if root == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	pal := newPalette(opts.Color)
	var keep map[*report.Node]bool
	if opts.MinSeverity != 0 {
		keep = make(map[*report.Node]bool)
		markVisible(root, opts.MinSeverity, keep)
	}
	root.Walk(func(n *report.Node, depth int) bool {
		if keep != nil && !keep[n] {
			return false
		}
		sev, tagged := n.Severity()
		if !tagged {
			sev = report.SeverityInfo
		}
		indent := strings.Repeat(report.PrintIndent, depth)
		fold := ""
		if len(n.Children()) > 0 {
			fold = "+ "
		}
		text := n.Message()
		if opts.ShowSeverity && tagged {
			text = "[" + sev.String() + "] " + text
		}
		if opts.Width > 0 {
			text = Truncate(text, opts.Width-runewidth.StringWidth(indent+fold))
		}
		bw.WriteString(indent)
		if pal != nil {
			if fold != "" {
				bw.WriteString(pal.fold.Sprint(fold))
			}
			if tagged {
				text = pal.sev[sev].Sprint(text)
			}
		} else {
			bw.WriteString(fold)
		}
		bw.WriteString(text)
		bw.WriteByte('\n')
		return true
	})
	return bw.Flush()
}

func markVisible(n *report.Node, minSev report.Severity, keep map[*report.Node]bool) bool {
	sev, ok := n.Severity()
	if !ok {
		sev = report.SeverityInfo
	}
	visible := sev >= minSev
	for _, c := range n.Children() {
		if markVisible(c, minSev, keep) {
			visible = true
		}
	}
	keep[n] = visible
	return visible
}

// Truncate shortens value to width display cells, ending with "..." when there
// is room for it.
func Truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
